package models

import (
	"encoding/json"
	"time"
)

const (
	BookingStatusPending  = "pending"
	BookingStatusAccepted = "accepted"
	BookingStatusDenied   = "denied"
)

type Booking struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Email           string     `gorm:"type:varchar(255);not null" json:"email"`
	Phone           string     `gorm:"type:varchar(50)" json:"phone"`
	Idea            string     `gorm:"type:text;not null" json:"idea"`
	Placement       string     `gorm:"type:varchar(100)" json:"placement"`
	Size            string     `gorm:"type:varchar(100)" json:"size"`
	IsCustom        bool       `gorm:"default:false" json:"is_custom"`
	ReferencePhotos string     `gorm:"type:text" json:"-"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AdminNotes      *string    `gorm:"type:text" json:"admin_notes,omitempty"`
	ClientToken     *string    `gorm:"type:varchar(64);index" json:"client_token,omitempty"`
	AgreedPrice     *float64   `gorm:"type:decimal(10,2)" json:"agreed_price,omitempty"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

// GetReferencePhotos decodes the stored JSON array of photo URLs. An empty or
// unreadable column reads as no photos.
func (b *Booking) GetReferencePhotos() []string {
	if b.ReferencePhotos == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(b.ReferencePhotos), &urls); err != nil {
		return []string{}
	}
	return urls
}

func (b *Booking) SetReferencePhotos(urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	b.ReferencePhotos = string(data)
	return nil
}

// MarshalJSON inlines the decoded photo list so API consumers never see the
// raw JSON column.
func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	return json.Marshal(struct {
		alias
		ReferencePhotos []string `json:"reference_photos"`
	}{
		alias:           alias(b),
		ReferencePhotos: b.GetReferencePhotos(),
	})
}
