package repository

import (
	"fmt"

	"github.com/Eursukkul/classpass-service/pkg/database"
)

// Store bundles the repositories of one backend.
type Store struct {
	Passes     PassRepository
	Bookings   BookingRepository
	Activities ActivityRepository
	Close      func() error
}

// OpenStore connects to postgres (via dsn) or sqlite (via sqlitePath)
// depending on driver, and migrates the schema.
func OpenStore(driver, dsn, sqlitePath string) (*Store, error) {
	switch driver {
	case "postgres":
		db, err := database.NewPostgresDB(dsn)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		return &Store{
			Passes:     NewPassRepository(db),
			Bookings:   NewBookingRepository(db),
			Activities: NewActivityRepository(db),
			Close:      sqlDB.Close,
		}, nil
	case "sqlite":
		db, err := database.NewSQLiteDB(sqlitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Passes:     NewSQLitePassRepository(db),
			Bookings:   NewSQLiteBookingRepository(db),
			Activities: NewSQLiteActivityRepository(db),
			Close:      db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
