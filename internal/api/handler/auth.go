package handler

import (
	"net/http"
	"time"

	"github.com/Rrens/itinerary-planner/internal/api/middleware"
	"github.com/Rrens/itinerary-planner/internal/api/response"
	"github.com/Rrens/itinerary-planner/internal/config"
	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	cookie      config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cfg}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if !bind(w, r, &input) {
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		response.Fail(w, err)
		return
	}

	h.setTokenCookie(w, result.AccessToken, time.Duration(result.ExpiresIn)*time.Second)
	response.Created(w, result)
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !bind(w, r, &input) {
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		response.Fail(w, err)
		return
	}

	h.setTokenCookie(w, result.AccessToken, time.Duration(result.ExpiresIn)*time.Second)
	response.OK(w, result)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	response.OK(w, map[string]string{"message": "logged out"})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Fail(w, domain.Unauthenticated("authentication required"))
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, user)
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
