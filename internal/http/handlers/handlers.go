// Package handlers exposes the REST endpoints of the intake API:
//   - POST /intake       (score and store a questionnaire)
//   - POST /login        (check demo credentials, return the role)
//   - GET  /submissions  (one record by ?id=, or the summary list)
//
// Handlers are transport-thin: they bind input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/tbourn/go-intake-backend/internal/auth"
	"github.com/tbourn/go-intake-backend/internal/domain"
	"github.com/tbourn/go-intake-backend/internal/http/middleware"
	"github.com/tbourn/go-intake-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// IntakeService scores and stores questionnaires.
type IntakeService interface {
	// Submit stores in for username; replayed is true when idemKey matched
	// an earlier submission.
	Submit(ctx context.Context, username string, in services.IntakeInput, idemKey string) (sub *domain.Submission, replayed bool, err error)
}

// SubmissionService reads stored submissions.
type SubmissionService interface {
	Get(ctx context.Context, rawID string) (*domain.Submission, error)
	List(ctx context.Context) ([]domain.SubmissionSummary, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.SubmissionSummary, int64, error)
}

//
// Handler wiring
//

// Handlers groups the API endpoints and their dependencies.
type Handlers struct {
	intakeSvc   IntakeService
	subSvc      SubmissionService
	authn       auth.Authenticator
	defaultUser string
}

// New constructs Handlers. defaultUser is the username recorded for intake
// requests that carry no X-User-ID header.
func New(intakeSvc IntakeService, subSvc SubmissionService, authn auth.Authenticator, defaultUser string) *Handlers {
	mustRegisterValidators()
	return &Handlers{intakeSvc: intakeSvc, subSvc: subSvc, authn: authn, defaultUser: defaultUser}
}

// userID returns the identity stored by middleware.Identity, or defaultUser.
func (h *Handlers) userID(c *gin.Context) string {
	if uid := middleware.UserID(c); uid != "" {
		return uid
	}
	return h.defaultUser
}

//
// Binding
//

var registerOnce sync.Once

// mustRegisterValidators adds the notblank rule to gin's validator engine.
func mustRegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("handlers: gin validator engine is not go-playground/validator")
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(fmt.Sprintf("handlers: register notblank: %v", err))
		}
	})
}

// isValidationError reports whether a bind error came from struct tags rather
// than from malformed JSON.
func isValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}

// Text is a request field that accepts either a JSON string or a JSON number.
// Numbers keep their literal spelling. null decodes as empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}
