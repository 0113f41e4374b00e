package validation_test

import (
	"strings"
	"testing"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidate_CreatePass_OK(t *testing.T) {
	v := validation.New()
	err := v.Validate(&dto.CreatePassRequest{StudioName: "CorePower Yoga", TotalClasses: 10, Cost: 18000})
	assert.NoError(t, err)
}

func TestValidate_CreatePass_Errors(t *testing.T) {
	v := validation.New()

	err := v.Validate(&dto.CreatePassRequest{StudioName: "   ", TotalClasses: 0, Cost: -1})

	fields := fieldsOf(t, err)
	assert.Equal(t, "is required", fields["studioName"])
	assert.Equal(t, "must be at least 1", fields["totalClasses"])
	assert.Equal(t, "must be at least 0", fields["cost"])
}

func TestValidate_CreatePass_NameTooLong(t *testing.T) {
	v := validation.New()

	err := v.Validate(&dto.CreatePassRequest{StudioName: strings.Repeat("a", 101), TotalClasses: 1})
	assert.Equal(t, "must be at most 100 characters", fieldsOf(t, err)["studioName"])

	assert.NoError(t, v.Validate(&dto.CreatePassRequest{StudioName: strings.Repeat("é", 100), TotalClasses: 1}))
}

func TestValidate_UpdatePass(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(&dto.UpdatePassRequest{}))

	blank := ""
	neg := int64(-5)
	err := v.Validate(&dto.UpdatePassRequest{StudioName: &blank, Cost: &neg})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "studioName")
	assert.Contains(t, fields, "cost")
}

func TestValidate_ExtendPass(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(&dto.ExtendPassRequest{AdditionalClasses: 3, AdditionalCost: 0}))

	err := v.Validate(&dto.ExtendPassRequest{AdditionalClasses: 3, AdditionalCost: -100})
	assert.Contains(t, fieldsOf(t, err), "additionalCost")
}

func TestValidate_ExtendPass_UpperBounds(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(&dto.ExtendPassRequest{AdditionalClasses: 10000, AdditionalCost: 100000000}))

	err := v.Validate(&dto.ExtendPassRequest{AdditionalClasses: 10001, AdditionalCost: 9223372036854775807})

	fields := fieldsOf(t, err)
	assert.Equal(t, "must be at most 10000", fields["additionalClasses"])
	assert.Equal(t, "must be at most 100000000", fields["additionalCost"])
}

func TestValidate_CheckIn(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(&dto.CheckInRequest{}))

	instructor := "Ari"
	assert.NoError(t, v.Validate(&dto.CheckInRequest{ClassName: "Sculpt", InstructorName: &instructor}))

	err := v.Validate(&dto.CheckInRequest{InstructorName: &instructor})
	assert.Equal(t, "is required", fieldsOf(t, err)["className"])
}

func TestErrors_Error(t *testing.T) {
	assert.Equal(t, "", validation.Errors{}.Error())
	assert.Equal(t, "validation failed: 1 error(s)", validation.Field("totalClasses", "must be at most 50").Error())
}
