// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Submission model.
//
// All functions are context-aware and accept a *gorm.DB handle. They follow
// the "thin repository" approach: no business logic, only persistence and
// query composition. Submissions are append-only, so there is no update or
// delete function here.
//
// Error semantics:
//   - A missing row is reported as ErrNotFound (gorm.ErrRecordNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-intake-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// summaryColumns is the list projection. Intake fields are never selected.
var summaryColumns = []string{"id", "username", "created_at", "recommendation", "risk_score"}

// CreateSubmission inserts a new submission. The store assigns the ID and
// CreatedAt is set to UTC now.
func CreateSubmission(ctx context.Context, db *gorm.DB, username string, data domain.IntakeData, recommendation string, riskScore int) (*domain.Submission, error) {
	s := &domain.Submission{
		Username:       username,
		SubmissionData: datatypes.NewJSONType(data),
		Recommendation: recommendation,
		RiskScore:      riskScore,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSubmission fetches one submission with its intake fields, or ErrNotFound.
func GetSubmission(ctx context.Context, db *gorm.DB, id uint) (*domain.Submission, error) {
	var s domain.Submission
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSubmissionSummaries returns the summary projection, newest first.
// limit <= 0 returns every row from offset on.
func ListSubmissionSummaries(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SubmissionSummary, error) {
	out := []domain.SubmissionSummary{}
	q := db.WithContext(ctx).
		Model(&domain.Submission{}).
		Select(summaryColumns).
		Order("created_at desc").
		Order("id desc")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&out).Error
	return out, err
}

// CountSubmissions returns the total number of stored submissions.
func CountSubmissions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Submission{}).
		Count(&total).Error
	return total, err
}
