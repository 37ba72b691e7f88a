// Package services – IntakeService
//
// This file implements the intake use case: validate the questionnaire,
// normalize units and free text, score it, store it, and announce it.
// Requests carrying an Idempotency-Key are answered from the stored
// submission when the key was already used inside its TTL.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-intake-backend/internal/domain"
	"github.com/tbourn/go-intake-backend/internal/events"
	"github.com/tbourn/go-intake-backend/internal/observability"
	"github.com/tbourn/go-intake-backend/internal/repo"
	"github.com/tbourn/go-intake-backend/internal/risk"
	"github.com/tbourn/go-intake-backend/internal/units"
	"github.com/tbourn/go-intake-backend/internal/utils"
)

// IntakeRepo is the persistence contract IntakeService needs.
type IntakeRepo interface {
	CreateSubmission(ctx context.Context, db *gorm.DB, username string, data domain.IntakeData, recommendation string, riskScore int) (*domain.Submission, error)
	GetSubmission(ctx context.Context, db *gorm.DB, id uint) (*domain.Submission, error)
	GetIdempotency(ctx context.Context, db *gorm.DB, username, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, username, key string, submissionID uint, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// IntakeInput is the questionnaire as received. Units selects how Weight and
// Height are read; for imperial input Height holds feet and HeightInches the
// remaining inches.
type IntakeInput struct {
	Age          string
	Weight       string
	Height       string
	HeightInches string
	Symptoms     string
	History      string
	Lifestyle    string
	Units        string
}

// IntakeService turns intake input into stored, scored submissions.
type IntakeService struct {
	DB     *gorm.DB
	Repo   IntakeRepo
	Events events.Publisher

	// StrictNumeric rejects age/weight values that are not finite numbers.
	// When false they are stored as given and score low.
	StrictNumeric bool
	// IdempotencyTTL is how long an Idempotency-Key replays its submission.
	IdempotencyTTL time.Duration
	// EventsTimeout bounds each publish call.
	EventsTimeout time.Duration

	now func() time.Time
}

// NewIntakeService constructs an IntakeService with strict numeric input, a
// 24h idempotency window and a 2s publish timeout. pub may be nil.
func NewIntakeService(db *gorm.DB, r IntakeRepo, pub events.Publisher) *IntakeService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &IntakeService{
		DB:             db,
		Repo:           r,
		Events:         pub,
		StrictNumeric:  true,
		IdempotencyTTL: 24 * time.Hour,
		EventsTimeout:  2 * time.Second,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates, scores, and stores in for username. replayed is true when
// the result came from an earlier request with the same idemKey.
//
// Errors: ErrMissingField, ErrInvalidUnits, ErrInvalidNumber for bad input;
// ErrPersistence (wrapping the driver error) when the store fails.
func (s *IntakeService) Submit(ctx context.Context, username string, in IntakeInput, idemKey string) (sub *domain.Submission, replayed bool, err error) {
	ctx, span := observability.StartSpan(ctx, "IntakeService.Submit",
		attribute.String("user.id", username),
		attribute.Bool("idempotency.key_present", idemKey != ""),
	)
	defer func() { observability.EndSpan(span, err) }()

	log := zerolog.Ctx(ctx)

	if idemKey != "" {
		prev, err := s.replay(ctx, username, idemKey)
		if err != nil {
			return nil, false, err
		}
		if prev != nil {
			span.SetAttributes(attribute.Bool("idempotency.replayed", true))
			return prev, true, nil
		}
	}

	data, err := s.normalize(in)
	if err != nil {
		return nil, false, err
	}

	a := risk.Evaluate(data)
	span.SetAttributes(attribute.Int("risk.score", a.Score))

	// A disconnecting client must not abort the write.
	wctx := context.WithoutCancel(ctx)
	sub, err = s.Repo.CreateSubmission(wctx, s.DB, username, data, a.Recommendation, a.Score)
	if err != nil {
		observability.PersistFailuresTotal.Inc()
		log.Error().Err(err).
			Str("username", username).
			Interface("intake", data).
			Int("risk_score", a.Score).
			Msg("intake persist failed")
		return nil, false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	observability.AssessmentsTotal.WithLabelValues(string(a.Level)).Inc()

	if idemKey != "" {
		if _, ierr := s.Repo.CreateIdempotency(wctx, s.DB, username, idemKey, sub.ID, http.StatusOK, s.IdempotencyTTL); ierr != nil {
			log.Warn().Err(ierr).Uint("submission_id", sub.ID).Msg("idempotency record not stored")
		}
	}

	s.publish(wctx, log, sub, a)
	return sub, false, nil
}

// replay returns the submission recorded for (username, key), or nil when
// the key is unused or expired.
func (s *IntakeService) replay(ctx context.Context, username, key string) (*domain.Submission, error) {
	rec, err := s.Repo.GetIdempotency(ctx, s.DB, username, key, s.clock())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	sub, err := s.Repo.GetSubmission(ctx, s.DB, rec.SubmissionID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return sub, nil
}

// normalize applies presence, unit, free-text and numeric rules in that order.
func (s *IntakeService) normalize(in IntakeInput) (domain.IntakeData, error) {
	for _, v := range []string{in.Age, in.Weight, in.Height, in.Symptoms, in.History, in.Lifestyle} {
		if utils.IsBlank(v) {
			return domain.IntakeData{}, ErrMissingField
		}
	}

	sys, err := units.ParseSystem(in.Units)
	if err != nil {
		return domain.IntakeData{}, ErrInvalidUnits
	}

	data := domain.IntakeData{
		Age:       strings.TrimSpace(in.Age),
		Weight:    units.WeightToKilograms(strings.TrimSpace(in.Weight), sys),
		Height:    units.HeightToCentimeters(strings.TrimSpace(in.Height), in.HeightInches, sys),
		Symptoms:  utils.CleanText(in.Symptoms),
		History:   utils.CleanText(in.History),
		Lifestyle: strings.TrimSpace(in.Lifestyle),
	}

	if s.StrictNumeric && (!units.IsFinite(data.Age) || !units.IsFinite(data.Weight)) {
		return domain.IntakeData{}, ErrInvalidNumber
	}
	return data, nil
}

func (s *IntakeService) publish(ctx context.Context, log *zerolog.Logger, sub *domain.Submission, a risk.Assessment) {
	if s.Events == nil {
		return
	}
	timeout := s.EventsTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ev := events.SubmissionCreated{
		Type:           events.TypeSubmissionCreated,
		ID:             sub.ID,
		Username:       sub.Username,
		RiskScore:      sub.RiskScore,
		RiskLevel:      string(a.Level),
		Recommendation: sub.Recommendation,
		CreatedAt:      sub.CreatedAt,
	}
	if err := s.Events.Publish(pctx, ev); err != nil {
		observability.EventsFailedTotal.Inc()
		log.Warn().Err(err).Uint("submission_id", sub.ID).Msg("submission event not published")
	}
}

func (s *IntakeService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

// isNotFound treats repo-level not-found sentinels as "not found".
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
