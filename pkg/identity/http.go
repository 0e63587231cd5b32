package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuthHandler struct {
	service  *Service
	tokens   *JWTManager
	revoker  *TokenRevoker
	sso      *SSOAuthenticator
	sessions SessionStarter
}

// SessionStarter is implemented by the view-state manager adapter wired in
// main; it seeds or clears the UI session keyed by the token jti.
type SessionStarter interface {
	SessionStarted(r *http.Request, sessionID string) error
	SessionEnded(r *http.Request, sessionID string) error
}

func NewAuthHandler(service *Service, tokens *JWTManager, revoker *TokenRevoker, sso *SSOAuthenticator, sessions SessionStarter) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, revoker: revoker, sso: sso, sessions: sessions}
}

func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/signup", h.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
	if h.sso != nil {
		r.HandleFunc("/sso/login", h.handleSSOLogin).Methods(http.MethodGet)
		r.HandleFunc("/sso/callback", h.handleSSOCallback).Methods(http.MethodGet)
	}
}

func (h *AuthHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	user, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Warn("signup failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondWithSession(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.WithError(err).Warn("authentication failed")
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, user)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), claims.ID, time.Unix(claims.ExpiresAt, 0)); err != nil {
			logger.Log.WithError(err).Error("failed to revoke token")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	if h.sessions != nil {
		if err := h.sessions.SessionEnded(r, claims.ID); err != nil {
			logger.Log.WithError(err).Warn("failed to clear ui session")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claimsFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load user")
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

const ssoStateCookie = "sso_state"

func (h *AuthHandler) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ssoStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
	http.Redirect(w, r, h.sso.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(ssoStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid sso state", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	profile, err := h.sso.Exchange(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).Warn("sso exchange failed")
		http.Error(w, "sso sign-in failed", http.StatusUnauthorized)
		return
	}

	user, err := h.service.EnsureSSOUser(r.Context(), profile.Email, profile.Name)
	if err != nil {
		logger.Log.WithError(err).Error("failed to provision sso user")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, err := h.tokens.IssueToken(user)
	if err != nil {
		logger.Log.WithError(err).Error("failed issuing token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if h.sessions != nil {
		claims, err := h.tokens.ValidateToken(r.Context(), token)
		if err == nil {
			if err := h.sessions.SessionStarted(r, claims.ID); err != nil {
				logger.Log.WithError(err).Warn("failed to seed ui session")
			}
		}
	}
	respondJSON(w, status, models.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) claimsFromRequest(r *http.Request) (*Claims, error) {
	token := r.Header.Get("Authorization")
	if strings.HasPrefix(token, "Bearer ") {
		token = strings.TrimPrefix(token, "Bearer ")
	}
	claims, err := h.tokens.ValidateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if h.revoker != nil {
		revoked, err := h.revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errors.New("token revoked")
		}
	}
	return claims, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
