package http

import (
	"net/http"

	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/validate"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// Register godoc
// @Summary      Registers a new user
// @Description  Creates a user with the `user` role and sets the access and refresh token cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	input, err := validate.UserRegister(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, tokens, err := h.authService.Register(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.cookies.setAccessToken(w, tokens.Access)
	h.cookies.setRefreshToken(w, tokens.Refresh)
	respondJSON(w, r, http.StatusCreated, userResponse{User: user})
}

// Login godoc
// @Summary      Logs a user in
// @Description  Authenticates by email or phone number and sets the access and refresh token cookies. Any earlier refresh token stops working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	creds, err := validate.UserLogin(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, tokens, err := h.authService.Login(r.Context(), *creds)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.cookies.setAccessToken(w, tokens.Access)
	h.cookies.setRefreshToken(w, tokens.Refresh)
	respondJSON(w, r, http.StatusOK, userResponse{User: user})
}

// Refresh godoc
// @Summary      Refreshes the access token
// @Description  Issues a new access token cookie from the refresh token cookie. The refresh token itself is not rotated.
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Failure      403
// @Router       /api/users/refresh [get]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		refreshToken = cookie.Value
	}

	user, accessToken, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.cookies.setAccessToken(w, accessToken)
	respondJSON(w, r, http.StatusOK, messageResponse{Message: "Access token refreshed", User: user})
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Forgets the stored refresh token and expires both cookies
// @Tags         auth
// @Produce      json
// @Success      200
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, r, err)
			return
		}
	}

	h.cookies.expire(w)
	respondJSON(w, r, http.StatusOK, messageResponse{Message: "Logged out"})
}
