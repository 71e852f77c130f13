package store

import (
	"github.com/inkhaus/studio-app/models"
)

// ListMessages returns the booking's messages oldest first. The id tie-break
// keeps same-timestamp bursts in insertion order.
func (s *Store) ListMessages(bookingID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("booking_id = ?", bookingID).Order("created_at asc, id asc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends one message to a booking's thread and pushes it to live
// subscribers.
func (s *Store) SendMessage(bookingID uint, sender, content string) (*models.Message, error) {
	message := models.Message{
		BookingID: bookingID,
		Sender:    sender,
		Content:   content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(message)
	}
	return &message, nil
}
