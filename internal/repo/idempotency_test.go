package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-intake-backend/internal/domain"
)

func TestGetIdempotency_EmptyKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", time.Now().UTC())
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for empty key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:           "expired",
		Username:     "u1",
		Key:          "k1",
		SubmissionID: 1,
		Status:       200,
		CreatedAt:    now.Add(-2 * time.Hour),
		ExpiresAt:    now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	if rec, err := GetIdempotency(context.Background(), db, "u1", "k1", now); rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "u1", "missing", now); rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec, err)
	}
}

func TestCreateAndGetIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "k1", 42, 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.SubmissionID != 42 || got.Status != 200 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Keys are scoped per user.
	if _, err := GetIdempotency(ctx, db, "u2", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user must not see u1's key, got %v", err)
	}
}

func TestCreateIdempotency_Duplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", 1, 200, time.Hour); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "k1", 2, 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateIdempotency_ReplacesExpiredKey(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.Create(&domain.Idempotency{ID: "stale", Username: "u1", Key: "k1", SubmissionID: 1, Status: 200, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := CreateIdempotency(ctx, db, "u1", "k1", 2, 200, time.Hour)
	if err != nil {
		t.Fatalf("reuse after expiry: %v", err)
	}
	if rec.SubmissionID != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "k1", time.Now().UTC())
	if err != nil || got.SubmissionID != 2 {
		t.Fatalf("GetIdempotency after reuse = %+v, %v; want submission 2", got, err)
	}
	var n int64
	db.Model(&domain.Idempotency{}).Where("username = ? AND idem_key = ?", "u1", "k1").Count(&n)
	if n != 1 {
		t.Fatalf("expected stale row replaced, found %d rows", n)
	}

	// A live record still wins.
	if _, err := CreateIdempotency(ctx, db, "u1", "k1", 3, 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for live key, got %v", err)
	}
}

func TestCreateIdempotency_OtherErrorPropagates(t *testing.T) {
	db := newTestDB(t /* no table */)
	_, err := CreateIdempotency(context.Background(), db, "u1", "k1", 1, 200, time.Hour)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected raw DB error, got %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	db.Create(&domain.Idempotency{ID: "old", Username: "u", Key: "a", SubmissionID: 1, Status: 200, CreatedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	db.Create(&domain.Idempotency{ID: "live", Username: "u", Key: "b", SubmissionID: 2, Status: 200, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredIdempotency = %d, %v; want 1, nil", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("expected 1 live record, got %d", left)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	for _, msg := range []string{
		"UNIQUE constraint failed: idempotency.username",
		`ERROR: duplicate key value violates unique constraint "ux_idem_user_key"`,
		"Error 1062: Duplicate entry 'u-k' for key 'ux_idem_user_key'",
	} {
		if !isUniqueViolation(errors.New(msg)) {
			t.Fatalf("expected %q to be classified as unique violation", msg)
		}
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("connection errors are not unique violations")
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
