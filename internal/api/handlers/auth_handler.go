package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/booking-api/internal/auth"
	"github.com/isdelr/booking-api/internal/services"
)

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
	ttl     time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenService, ttl time.Duration) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, ttl: ttl}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the issued-token body, OAuth2 password-flow shaped.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// Token handles user authentication and token issuance. Credentials arrive
// either as an OAuth2 password form or as a JSON body.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to sign token")
		respondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// credentials extracts the username/password pair from a form-encoded or
// JSON request body.
func credentials(r *http.Request) (username, password string, ok bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", "", false
		}
		return r.PostFormValue("username"), r.PostFormValue("password"), true
	}

	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return "", "", false
	}
	return payload.Username, payload.Password, true
}
