package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"taskboard/internal/api/shared"
	"taskboard/internal/domain"
	"taskboard/internal/service/auth"
	"taskboard/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore     store.UserStore
	authenticator *auth.Authenticator
	hasher        auth.PasswordHasher
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// If log is nil, the default logger is used.
func NewAuthHandler(
	userStore store.UserStore,
	authenticator *auth.Authenticator,
	hasher auth.PasswordHasher,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		userStore:     userStore,
		authenticator: authenticator,
		hasher:        hasher,
		logger:        log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}
	user.FullName = req.FullName

	user.HashedPassword, err = h.hasher.Hash(req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Username already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Token handles POST /token. It accepts either a JSON body or an OAuth2
// password-flow form (username/password form fields) and returns a bearer
// token on success.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTokenRequest(w, r)
	if !ok {
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	token, err := h.authenticator.IssueToken(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// decodeTokenRequest reads credentials from a JSON body or a form-encoded
// one. On failure it writes the error response and returns ok=false.
func (h *AuthHandler) decodeTokenRequest(
	w http.ResponseWriter,
	r *http.Request,
) (TokenRequest, bool) {
	var req TokenRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return req, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return req, false
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return req, false
	}

	return req, true
}
