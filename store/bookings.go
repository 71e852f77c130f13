package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/inkhaus/studio-app/models"
	"gorm.io/gorm"
)

// ListBookings returns bookings newest first, optionally filtered by status.
// Same-timestamp rows fall back to id order so the listing is deterministic.
func (s *Store) ListBookings(status string) ([]models.Booking, error) {
	var bookings []models.Booking
	q := s.db.Order("created_at desc, id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBooking is a hard lookup: an unknown id is an error.
func (s *Store) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingByToken resolves a client-access token. Unlike GetBooking, a miss
// returns nil without an error: tokens are probed by anonymous clients and are
// expected to sometimes not resolve.
func (s *Store) GetBookingByToken(token string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Where("client_token = ?", token).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *Store) CreateBooking(booking *models.Booking) error {
	return s.db.Create(booking).Error
}

// UpdateBookingStatus sets the status and, only when notes is non-nil,
// replaces the admin notes. A nil notes leaves the stored notes untouched
// (omission is not clearing).
func (s *Store) UpdateBookingStatus(id uint, status string, notes *string) (*models.Booking, error) {
	patch := map[string]interface{}{"status": status}
	if notes != nil {
		patch["admin_notes"] = *notes
	}
	return s.UpdateBooking(id, patch)
}

// UpdateBooking applies an arbitrary partial field set. No field allow-listing
// happens here; the schema is the only gate. Reachable only from the
// authenticated admin surface.
func (s *Store) UpdateBooking(id uint, fields map[string]interface{}) (*models.Booking, error) {
	if err := s.db.Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetBooking(id)
}

// NewClientToken mints a fresh opaque token for anonymous booking lookup.
func (s *Store) NewClientToken() string {
	return uuid.NewString()
}
