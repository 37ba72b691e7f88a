// Package services – SubmissionService
//
// This file implements the read side used by the clinician dashboard:
// fetching one submission by id and listing the summary projection.
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-intake-backend/internal/domain"
)

// SubmissionRepo is the read contract SubmissionService needs.
type SubmissionRepo interface {
	GetSubmission(ctx context.Context, db *gorm.DB, id uint) (*domain.Submission, error)
	ListSubmissionSummaries(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SubmissionSummary, error)
	CountSubmissions(ctx context.Context, db *gorm.DB) (int64, error)
}

// SubmissionService provides read access to stored submissions.
type SubmissionService struct {
	DB   *gorm.DB
	Repo SubmissionRepo
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(db *gorm.DB, r SubmissionRepo) *SubmissionService {
	return &SubmissionService{DB: db, Repo: r}
}

// ParseID parses a submission id. Anything but an unsigned base-10 integer
// that fits the id type is ErrInvalidID.
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize)
	if err != nil {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

// Get returns the full submission for rawID. The id is validated before the
// store is consulted.
func (s *SubmissionService) Get(ctx context.Context, rawID string) (*domain.Submission, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	sub, err := s.Repo.GetSubmission(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return sub, nil
}

// List returns every submission summary, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]domain.SubmissionSummary, error) {
	items, err := s.Repo.ListSubmissionSummaries(ctx, s.DB, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return items, nil
}

// ListPage returns one page of summaries and the total count. Invalid page
// or pageSize values fall back to 1 and 20. A page past the end is empty.
func (s *SubmissionService) ListPage(ctx context.Context, page, pageSize int) ([]domain.SubmissionSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := s.Repo.CountSubmissions(ctx, s.DB)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	// Pages past the last one are empty; checking before multiplying keeps
	// huge page numbers from overflowing the offset.
	if total == 0 || int64(page-1) > (total-1)/int64(pageSize) {
		return []domain.SubmissionSummary{}, total, nil
	}
	offset := (page - 1) * pageSize

	items, err := s.Repo.ListSubmissionSummaries(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return items, total, nil
}
