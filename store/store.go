// Package store is the typed data-access layer. Each method performs exactly
// one database operation and propagates the database's error unchanged; the
// documented absence probes (GetSetting, GetBookingByToken) return nil instead
// of an error when no row matches.
package store

import (
	"github.com/inkhaus/studio-app/realtime"
	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// New wraps the shared database handle. hub may be nil when no realtime
// delivery is wanted (tests, scripts).
func New(db *gorm.DB, hub *realtime.Hub) *Store {
	return &Store{db: db, hub: hub}
}
