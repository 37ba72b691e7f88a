// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-intake-backend/internal/domain"
)

// SubmissionsStats returns the number of stored submissions and the highest
// ID among them. Because rows are append-only, the pair changes whenever the
// list changes and is a sound basis for a weak ETag.
//
// When the table is empty the result is (0, 0, nil).
func SubmissionsStats(ctx context.Context, db *gorm.DB) (count int64, maxID uint, err error) {
	q := db.WithContext(ctx).Model(&domain.Submission{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		ID uint
	}
	if err = db.WithContext(ctx).Model(&domain.Submission{}).Select("id").Order("id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.ID, nil
}
