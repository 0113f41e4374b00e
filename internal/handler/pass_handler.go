package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/lifecycle"
	"github.com/Eursukkul/classpass-service/internal/service"
	"github.com/Eursukkul/classpass-service/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const msgPassNotFound = "Class pass not found"

type PassHandler struct {
	svc   service.PassService
	clock func() time.Time
}

func NewPassHandler(svc service.PassService) *PassHandler {
	return &PassHandler{svc: svc, clock: time.Now}
}

func (h *PassHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListPasses)
	g.POST("", h.CreatePass)
	g.GET("/spending", h.GetSpending)
	g.GET("/:id", h.GetPass)
	g.PUT("/:id", h.UpdatePass)
	g.DELETE("/:id", h.DeletePass)
	g.POST("/:id/check-in", h.CheckIn)
	g.POST("/:id/extend", h.ExtendPass)
	g.GET("/:id/bookings", h.ListBookings)
}

func (h *PassHandler) ListPasses(c echo.Context) error {
	filter, err := lifecycle.ParseStatusFilter(c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be one of all, active, expiring, expired")
	}

	passes, err := h.svc.ListPasses(c.Request().Context(), c.QueryParam("search"), filter)
	if err != nil {
		return internal("Failed to fetch class passes", err)
	}

	now := h.clock()
	resp := make([]dto.PassResponse, len(passes))
	for i := range passes {
		resp[i] = dto.ToPassResponse(&passes[i], now)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PassHandler) GetPass(c echo.Context) error {
	id, err := passID(c)
	if err != nil {
		return err
	}
	pass, err := h.svc.GetPass(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "Failed to fetch class pass")
	}
	return c.JSON(http.StatusOK, dto.ToPassResponse(pass, h.clock()))
}

func (h *PassHandler) CreatePass(c echo.Context) error {
	var req dto.CreatePassRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err, "Failed to create class pass")
	}

	pass, err := h.svc.CreatePass(c.Request().Context(), req.Draft())
	if err != nil {
		return mapError(err, "Failed to create class pass")
	}
	return c.JSON(http.StatusCreated, dto.ToPassResponse(pass, h.clock()))
}

func (h *PassHandler) UpdatePass(c echo.Context) error {
	var req dto.UpdatePassRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err, "Failed to update class pass")
	}

	id, err := passID(c)
	if err != nil {
		return err
	}
	pass, err := h.svc.UpdatePass(c.Request().Context(), id, req.Update())
	if err != nil {
		return mapError(err, "Failed to update class pass")
	}
	return c.JSON(http.StatusOK, dto.ToPassResponse(pass, h.clock()))
}

func (h *PassHandler) DeletePass(c echo.Context) error {
	id, err := passID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePass(c.Request().Context(), id); err != nil {
		return mapError(err, "Failed to delete class pass")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PassHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err, "Failed to check in")
	}

	id, err := passID(c)
	if err != nil {
		return err
	}
	pass, err := h.svc.CheckIn(c.Request().Context(), id, req.Booking())
	if err != nil {
		return mapError(err, "Failed to check in")
	}
	return c.JSON(http.StatusOK, dto.ToPassResponse(pass, h.clock()))
}

func (h *PassHandler) ExtendPass(c echo.Context) error {
	var req dto.ExtendPassRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err, "Failed to extend class pass")
	}

	id, err := passID(c)
	if err != nil {
		return err
	}
	pass, err := h.svc.ExtendPass(c.Request().Context(), id, req.AdditionalClasses, req.AdditionalCost)
	if err != nil {
		return mapError(err, "Failed to extend class pass")
	}
	return c.JSON(http.StatusOK, dto.ToPassResponse(pass, h.clock()))
}

func (h *PassHandler) ListBookings(c echo.Context) error {
	id, err := passID(c)
	if err != nil {
		return err
	}
	bookings, err := h.svc.ListBookings(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "Failed to fetch bookings")
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PassHandler) GetSpending(c echo.Context) error {
	spending, err := h.svc.Spending(c.Request().Context())
	if err != nil {
		return internal("Failed to compute spending", err)
	}
	return c.JSON(http.StatusOK, dto.ToSpendingResponse(spending))
}

// passID reads the :id param. Pass ids are UUIDs, so anything else cannot
// name a stored pass and is answered as not found on every backend.
func passID(c echo.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, msgPassNotFound)
	}
	return id.String(), nil
}

// mapError turns service and lifecycle errors into HTTP errors; anything
// unrecognised becomes a 500 carrying fallback as its message.
func mapError(err error, fallback string) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Invalid input data",
			Errors:  verrs,
		})
	case errors.Is(err, service.ErrPassNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgPassNotFound)
	case errors.Is(err, lifecycle.ErrNoRemainingClasses):
		return echo.NewHTTPError(http.StatusBadRequest, "No remaining classes")
	case errors.Is(err, service.ErrPassExpired):
		return echo.NewHTTPError(http.StatusBadRequest, "Pass has expired")
	case errors.Is(err, lifecycle.ErrInvalidExtension):
		return echo.NewHTTPError(http.StatusBadRequest, "Must add at least 1 class")
	default:
		return internal(fallback, err)
	}
}

func internal(message string, err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, message).SetInternal(err)
}
