package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-intake-backend/internal/http/middleware"
	"github.com/tbourn/go-intake-backend/internal/services"
)

// HeaderIdempotencyReplayed is set to "true" when a response was served from
// an earlier request with the same Idempotency-Key.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// IntakeRequest is the questionnaire payload. Each value may be sent as a
// JSON string or number.
type IntakeRequest struct {
	Age       Text `json:"age"       binding:"notblank" example:"45" swaggertype:"string"`
	Weight    Text `json:"weight"    binding:"notblank" example:"72.5" swaggertype:"string"`
	Height    Text `json:"height"    binding:"notblank" example:"178" swaggertype:"string"`
	Symptoms  Text `json:"symptoms"  binding:"notblank" example:"Occasional headaches" swaggertype:"string"`
	History   Text `json:"history"   binding:"notblank" example:"None" swaggertype:"string"`
	Lifestyle Text `json:"lifestyle" binding:"notblank" example:"3" swaggertype:"string"`
	// HeightInches completes Height (feet) when Units is imperial.
	HeightInches Text `json:"heightInches" example:"9" swaggertype:"string"`
	// Units is metric (default) or imperial.
	Units string `json:"units" example:"metric" enums:"metric,imperial"`
}

func (r IntakeRequest) input() services.IntakeInput {
	return services.IntakeInput{
		Age:          string(r.Age),
		Weight:       string(r.Weight),
		Height:       string(r.Height),
		HeightInches: string(r.HeightInches),
		Symptoms:     string(r.Symptoms),
		History:      string(r.History),
		Lifestyle:    string(r.Lifestyle),
		Units:        r.Units,
	}
}

// IntakeResponse is the assessment returned for a stored submission.
type IntakeResponse struct {
	Recommendation string `json:"recommendation" example:"Low risk – Recommend maintaining current habits."`
	RiskScore      int    `json:"riskScore" example:"1"`
}

// SubmitIntake godoc
// @ID          submitIntake
// @Summary     Submit an intake questionnaire
// @Description Normalizes units, scores the answers, stores the submission, and returns the recommendation. Retrying with the same Idempotency-Key returns the stored result.
// @Tags        Intake
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Submitting user"            example(patient)
// @Param       Idempotency-Key  header  string  false "Client-chosen retry key"    example(3f8a2c1e-intake-1)
// @Param       body             body    handlers.IntakeRequest  true  "Questionnaire"
//
// @Success     200  {object}  handlers.IntakeResponse
// @Header      200  {string}  Idempotency-Replayed  "true when served from an earlier request"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or invalid field"
// @Failure     405  {object}  handlers.ErrorResponse  "Method not allowed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /intake [post]
func (h *Handlers) SubmitIntake(c *gin.Context) {
	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isValidationError(err) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgAllFieldsRequired)
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidBody)
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	sub, replayed, err := h.intakeSvc.Submit(c.Request.Context(), h.userID(c), req.input(), key)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingField):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgAllFieldsRequired)
		case errors.Is(err, services.ErrInvalidNumber):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidNumber)
		case errors.Is(err, services.ErrInvalidUnits):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidUnits)
		case errors.Is(err, services.ErrPersistence):
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, MsgInternal)
		default:
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, ErrCodeInternal, MsgInternal)
		}
		return
	}

	if replayed {
		c.Header(HeaderIdempotencyReplayed, "true")
	}
	ok(c, http.StatusOK, IntakeResponse{Recommendation: sub.Recommendation, RiskScore: sub.RiskScore})
}
