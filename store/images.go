package store

import (
	"github.com/inkhaus/studio-app/models"
)

// ListContentImages returns images ordered by display order, optionally
// filtered to one category. An empty category means all categories.
func (s *Store) ListContentImages(category string) ([]models.ContentImage, error) {
	var images []models.ContentImage
	q := s.db.Order("display_order asc")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ListFeaturedImages returns images flagged featured, ordered by display order.
func (s *Store) ListFeaturedImages() ([]models.ContentImage, error) {
	var images []models.ContentImage
	if err := s.db.Where("featured = ?", true).Order("display_order asc").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (s *Store) CreateContentImage(image *models.ContentImage) error {
	return s.db.Create(image).Error
}

// UpdateContentImage applies a partial field set and returns the updated row.
func (s *Store) UpdateContentImage(id uint, fields map[string]interface{}) (*models.ContentImage, error) {
	if err := s.db.Model(&models.ContentImage{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	var image models.ContentImage
	if err := s.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (s *Store) GetContentImage(id uint) (*models.ContentImage, error) {
	var image models.ContentImage
	if err := s.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteContentImage deletes by id. Deleting an absent id is not an error.
func (s *Store) DeleteContentImage(id uint) error {
	return s.db.Delete(&models.ContentImage{}, id).Error
}
