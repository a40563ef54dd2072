// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read access to the grievance category
// catalog, which is immutable for the duration of a conversation.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

// ListCategories returns the full catalog in display order.
func ListCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).Order("sort_order asc, id asc").Find(&out).Error
	return out, err
}
