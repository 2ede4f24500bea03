package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eventbook/server/internal/api/respond"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/validation"
)

type AuthHandler struct {
	Users *users.Service
}

func NewAuthHandler(service *users.Service) *AuthHandler {
	return &AuthHandler{Users: service}
}

type authResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Users == nil {
		respond.InternalError(w, r, nil)
		return
	}

	var creds users.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, token, err := h.Users.Signup(r.Context(), creds)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			respond.ValidationErrors(w, verr.Fields)
		case errors.Is(err, users.ErrDuplicateEmail):
			respond.Error(w, r, http.StatusConflict, "Email already registered", nil)
		default:
			respond.InternalError(w, r, err)
		}
		return
	}

	respond.JSON(w, http.StatusCreated, authResponse{
		Token: token,
		User:  userInfo{ID: user.ID, Email: user.Email},
	})
}

// Login handles POST /auth/login. Unknown email and wrong password produce
// the identical response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Users == nil {
		respond.InternalError(w, r, nil)
		return
	}

	var creds users.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, token, err := h.Users.Login(r.Context(), creds)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			respond.ValidationErrors(w, verr.Fields)
		case errors.Is(err, users.ErrInvalidCredentials):
			respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
		default:
			respond.InternalError(w, r, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  userInfo{ID: user.ID, Email: user.Email},
	})
}
