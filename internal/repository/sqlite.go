package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/google/uuid"
)

// The sqlite repositories expect a pool limited to one connection (see
// database.NewSQLiteDB), which makes every transaction exclusive.

const passColumns = "id, studio_name, total_classes, remaining_classes, purchase_date, expiration_date, cost, notes, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

type sqlitePassRepository struct {
	db *sql.DB
}

func NewSQLitePassRepository(db *sql.DB) PassRepository {
	return &sqlitePassRepository{db: db}
}

func (r *sqlitePassRepository) Create(ctx context.Context, pass *models.ClassPass) error {
	if pass.ID == "" {
		pass.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	pass.CreatedAt, pass.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO class_passes (`+passColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pass.ID, pass.StudioName, pass.TotalClasses, pass.RemainingClasses,
		pass.PurchaseDate, nullTime(pass.ExpirationDate), pass.Cost, nullString(pass.Notes),
		pass.CreatedAt, pass.UpdatedAt,
	)
	return err
}

func (r *sqlitePassRepository) FindByID(ctx context.Context, id string) (*models.ClassPass, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+passColumns+" FROM class_passes WHERE id = ?", id)
	return scanPass(row)
}

func (r *sqlitePassRepository) FindAll(ctx context.Context) ([]models.ClassPass, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+passColumns+" FROM class_passes ORDER BY rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passes []models.ClassPass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, *p)
	}
	return passes, rows.Err()
}

func (r *sqlitePassRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.ClassPass, error) {
	return r.MutateWithBooking(ctx, id, fn, nil)
}

func (r *sqlitePassRepository) MutateWithBooking(ctx context.Context, id string, fn MutateFunc, booking *models.ClassBooking) (*models.ClassPass, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	pass, err := scanPass(tx.QueryRowContext(ctx, "SELECT "+passColumns+" FROM class_passes WHERE id = ?", id))
	if err != nil {
		return nil, err
	}

	if err := fn(pass); err != nil {
		return nil, err
	}

	pass.UpdatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE class_passes SET studio_name = ?, total_classes = ?, remaining_classes = ?,
		 purchase_date = ?, expiration_date = ?, cost = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		pass.StudioName, pass.TotalClasses, pass.RemainingClasses,
		pass.PurchaseDate, nullTime(pass.ExpirationDate), pass.Cost, nullString(pass.Notes), pass.UpdatedAt,
		pass.ID,
	); err != nil {
		return nil, err
	}

	if booking != nil {
		booking.PassID = pass.ID
		if err := insertBooking(ctx, tx, booking); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pass, nil
}

func (r *sqlitePassRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM class_bookings WHERE pass_id = ?", id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM class_passes WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, tx.Commit()
}

func scanPass(row rowScanner) (*models.ClassPass, error) {
	var (
		p       models.ClassPass
		expires sql.NullTime
		notes   sql.NullString
	)
	err := row.Scan(&p.ID, &p.StudioName, &p.TotalClasses, &p.RemainingClasses,
		&p.PurchaseDate, &expires, &p.Cost, &notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		p.ExpirationDate = &t
	}
	if notes.Valid {
		s := notes.String
		p.Notes = &s
	}
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

type sqliteBookingRepository struct {
	db *sql.DB
}

func NewSQLiteBookingRepository(db *sql.DB) BookingRepository {
	return &sqliteBookingRepository{db: db}
}

func (r *sqliteBookingRepository) Create(ctx context.Context, booking *models.ClassBooking) error {
	return insertBooking(ctx, r.db, booking)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBooking(ctx context.Context, db execer, booking *models.ClassBooking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO class_bookings (id, pass_id, class_name, instructor_name, class_date, checked_in)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.PassID, booking.ClassName, nullString(booking.InstructorName),
		booking.ClassDate, booking.CheckedIn,
	)
	return err
}

func (r *sqliteBookingRepository) FindByPassID(ctx context.Context, passID string) ([]models.ClassBooking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, pass_id, class_name, instructor_name, class_date, checked_in
		 FROM class_bookings WHERE pass_id = ? ORDER BY rowid ASC`,
		passID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.ClassBooking
	for rows.Next() {
		var (
			b          models.ClassBooking
			instructor sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.PassID, &b.ClassName, &instructor, &b.ClassDate, &b.CheckedIn); err != nil {
			return nil, err
		}
		if instructor.Valid {
			s := instructor.String
			b.InstructorName = &s
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

type sqliteActivityRepository struct {
	db *sql.DB
}

func NewSQLiteActivityRepository(db *sql.DB) ActivityRepository {
	return &sqliteActivityRepository{db: db}
}

func (r *sqliteActivityRepository) Upsert(ctx context.Context, a *models.PassActivity) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var stored time.Time
	err = tx.QueryRowContext(ctx, "SELECT occurred_at FROM pass_activities WHERE pass_id = ?", a.PassID).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, err
	case stored.After(a.OccurredAt):
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pass_activities (pass_id, studio_name, last_event, remaining_classes, total_classes, expiration_date, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (pass_id) DO UPDATE SET
			studio_name = excluded.studio_name,
			last_event = excluded.last_event,
			remaining_classes = excluded.remaining_classes,
			total_classes = excluded.total_classes,
			expiration_date = excluded.expiration_date,
			occurred_at = excluded.occurred_at`,
		a.PassID, a.StudioName, a.LastEvent, a.RemainingClasses, a.TotalClasses,
		nullTime(a.ExpirationDate), a.OccurredAt,
	); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *sqliteActivityRepository) FindByPassID(ctx context.Context, passID string) (*models.PassActivity, error) {
	var (
		a       models.PassActivity
		expires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT pass_id, studio_name, last_event, remaining_classes, total_classes, expiration_date, occurred_at
		 FROM pass_activities WHERE pass_id = ?`, passID,
	).Scan(&a.PassID, &a.StudioName, &a.LastEvent, &a.RemainingClasses, &a.TotalClasses, &expires, &a.OccurredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		a.ExpirationDate = &t
	}
	return &a, nil
}

func (r *sqliteActivityRepository) Delete(ctx context.Context, passID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM pass_activities WHERE pass_id = ?", passID)
	return err
}
