package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-intake-backend/internal/auth"
)

// LoginRequest carries demo credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"doctor"`
	Password string `json:"password" binding:"required" example:"doctor"`
}

// LoginResponse names the role granted to valid credentials.
type LoginResponse struct {
	Role auth.Role `json:"role" example:"doctor" enums:"doctor,patient"`
}

// Login godoc
// @ID          login
// @Summary     Check credentials
// @Description Verifies a username/password pair against the configured accounts and returns the role. No session or token is issued.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing credentials"
// @Failure     401  {object}  handlers.ErrorResponse  "Bad credentials"
// @Failure     405  {object}  handlers.ErrorResponse  "Method not allowed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isValidationError(err) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgMissingCredentials)
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidBody)
		return
	}

	role, err := h.authn.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, MsgBadCredentials)
			return
		}
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, MsgInternal)
		return
	}

	ok(c, http.StatusOK, LoginResponse{Role: role})
}
