package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-intake-backend/internal/domain"
	"github.com/tbourn/go-intake-backend/internal/events"
	"github.com/tbourn/go-intake-backend/internal/repo"
)

// fakeRepo is a func-field stub; nil funcs fall back to benign defaults.
type fakeRepo struct {
	createFn  func(ctx context.Context, username string, data domain.IntakeData, rec string, score int) (*domain.Submission, error)
	getFn     func(ctx context.Context, id uint) (*domain.Submission, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.SubmissionSummary, error)
	countFn   func(ctx context.Context) (int64, error)
	getIdemFn func(ctx context.Context, username, key string) (*domain.Idempotency, error)
	putIdemFn func(ctx context.Context, username, key string, id uint) (*domain.Idempotency, error)

	creates int
	gets    int
}

var (
	_ IntakeRepo     = (*fakeRepo)(nil)
	_ SubmissionRepo = (*fakeRepo)(nil)
)

func (f *fakeRepo) CreateSubmission(ctx context.Context, _ *gorm.DB, username string, data domain.IntakeData, rec string, score int) (*domain.Submission, error) {
	f.creates++
	if f.createFn != nil {
		return f.createFn(ctx, username, data, rec, score)
	}
	return &domain.Submission{ID: uint(f.creates), Username: username, Recommendation: rec, RiskScore: score, CreatedAt: time.Now().UTC()}, nil
}

func (f *fakeRepo) GetSubmission(ctx context.Context, _ *gorm.DB, id uint) (*domain.Submission, error) {
	f.gets++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) ListSubmissionSummaries(ctx context.Context, _ *gorm.DB, offset, limit int) ([]domain.SubmissionSummary, error) {
	if f.listFn != nil {
		return f.listFn(ctx, offset, limit)
	}
	return []domain.SubmissionSummary{}, nil
}

func (f *fakeRepo) CountSubmissions(ctx context.Context, _ *gorm.DB) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

func (f *fakeRepo) GetIdempotency(ctx context.Context, _ *gorm.DB, username, key string, _ time.Time) (*domain.Idempotency, error) {
	if f.getIdemFn != nil {
		return f.getIdemFn(ctx, username, key)
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) CreateIdempotency(ctx context.Context, _ *gorm.DB, username, key string, id uint, _ int, _ time.Duration) (*domain.Idempotency, error) {
	if f.putIdemFn != nil {
		return f.putIdemFn(ctx, username, key, id)
	}
	return &domain.Idempotency{Username: username, Key: key, SubmissionID: id}, nil
}

// sqlRepo forwards to the real repo package.
type sqlRepo struct{}

func (sqlRepo) CreateSubmission(ctx context.Context, db *gorm.DB, u string, d domain.IntakeData, r string, s int) (*domain.Submission, error) {
	return repo.CreateSubmission(ctx, db, u, d, r, s)
}
func (sqlRepo) GetSubmission(ctx context.Context, db *gorm.DB, id uint) (*domain.Submission, error) {
	return repo.GetSubmission(ctx, db, id)
}
func (sqlRepo) ListSubmissionSummaries(ctx context.Context, db *gorm.DB, o, l int) ([]domain.SubmissionSummary, error) {
	return repo.ListSubmissionSummaries(ctx, db, o, l)
}
func (sqlRepo) CountSubmissions(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountSubmissions(ctx, db)
}
func (sqlRepo) GetIdempotency(ctx context.Context, db *gorm.DB, u, k string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, u, k, now)
}
func (sqlRepo) CreateIdempotency(ctx context.Context, db *gorm.DB, u, k string, id uint, st int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, u, k, id, st, ttl)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:intakesvc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	got []events.SubmissionCreated
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.SubmissionCreated) error {
	p.got = append(p.got, ev)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

func validInput() IntakeInput {
	return IntakeInput{Age: "45", Weight: "70", Height: "175", Symptoms: "none", History: "none", Lifestyle: "3"}
}
