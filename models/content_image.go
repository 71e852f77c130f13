package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	ImageCategoryFeatured  = "featured"
	ImageCategoryPortfolio = "portfolio"
	ImageCategoryFlash     = "flash"
)

type ContentImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	URL          string    `gorm:"type:varchar(512);not null" json:"url"`
	Category     string    `gorm:"type:varchar(20);not null;index" json:"category"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Price        *float64  `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	Size         *string   `gorm:"type:varchar(100)" json:"size,omitempty"`
	Featured     bool      `gorm:"default:false;index" json:"featured"`
	DisplayOrder *int      `json:"display_order,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// DisplayPrice renders the optional price for templates, with thousands
// separators ("1,200"). Empty when no price is set.
func (ci ContentImage) DisplayPrice() string {
	if ci.Price == nil {
		return ""
	}

	formatted := fmt.Sprintf("%.0f", *ci.Price)
	var groups []string
	for i := len(formatted); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{formatted[start:i]}, groups...)
	}
	return "$" + strings.Join(groups, ",")
}
