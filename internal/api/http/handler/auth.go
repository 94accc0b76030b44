package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okorneva/cloudstore/internal/logger"
	"github.com/okorneva/cloudstore/internal/model"
)

// SessionService defines login and logout operations.
type SessionService interface {
	Login(ctx context.Context, login, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

// Auth handles the login and logout endpoints.
type Auth struct {
	sessions SessionService
	validate *validator.Validate
	logger   *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(sessions SessionService, logger *logger.Logger) *Auth {
	return &Auth{
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
	}
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AuthToken string `json:"auth-token"`
}

// Login exchanges credentials for an auth token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewErrInvalidArgument("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, model.NewErrInvalidArgument(validationMessage(err)))
		return
	}

	token, err := h.sessions.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"login", req.Login,
			"error", err.Error())
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{AuthToken: token})
}

// Logout revokes the caller's token. Unknown tokens are a no-op.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := model.TokenFromContext(r.Context())

	if err := h.sessions.Logout(r.Context(), token); err != nil {
		h.logger.Error("Auth handler: logout failed", "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// validationMessage renders the first failed field as a caller message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Login":
			return "login can't be empty"
		case "Password":
			return "password can't be empty"
		case "Name":
			return "name can't be empty"
		}
	}
	return "invalid request body"
}
