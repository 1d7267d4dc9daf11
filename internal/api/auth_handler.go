package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
)

// sessionCookie is the cookie carrying the session token. The name must
// stay "jwt": it is where the token verifier looks when the Authorization
// header is absent.
const sessionCookie = "jwt"

// AuthHandler issues and revokes admin session tokens. There is a single
// admin credential; the handler never sees the password at rest, only its
// SHA-256 digest.
type AuthHandler struct {
	tokenAuth      *jwtauth.JWTAuth
	passwordDigest string
	sessionTTL     time.Duration
}

// NewAuthHandler creates a new auth handler. passwordSHA256 is the
// hex-encoded SHA-256 digest of the admin password.
func NewAuthHandler(tokenAuth *jwtauth.JWTAuth, passwordSHA256 string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		tokenAuth:      tokenAuth,
		passwordDigest: strings.ToLower(passwordSHA256),
		sessionTTL:     sessionTTL,
	}
}

// Routes returns the routes for session management
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	return r
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is the response body for a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login checks the admin password and issues a session token, returned in
// the body and as a cookie so both API clients and browsers can use it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	digest := sha256.Sum256([]byte(req.Password))
	supplied := hex.EncodeToString(digest[:])
	if !hmac.Equal([]byte(supplied), []byte(h.passwordDigest)) {
		slog.Warn("rejected admin login", "remote", r.RemoteAddr)
		respondError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	expiresAt := time.Now().Add(h.sessionTTL)
	claims := map[string]interface{}{"role": "admin"}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, expiresAt)

	_, token, err := h.tokenAuth.Encode(claims)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Logout clears the session cookie. Issued tokens stay valid until they
// expire; keep the session TTL short.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, map[string]string{"status": "logged out"})
}
