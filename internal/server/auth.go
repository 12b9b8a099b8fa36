package server

import (
	"net/http"
	"time"

	"ecolabs/internal/service"
	"ecolabs/pkg/types"
)

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	user, err := s.app.Register(r.Context(), input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	sanitized := user.Sanitized(types.Caller{ID: user.ID, Role: user.Role})
	s.respond(w, http.StatusCreated, map[string]any{"user": sanitized}, "account created")
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.app.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.setTokenCookies(w, result)
	s.respond(w, http.StatusOK, result, "logged in")
}

func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := s.refreshTokenFromRequest(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.app.Refresh(r.Context(), refreshToken)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.setTokenCookies(w, result)
	s.respond(w, http.StatusOK, result, "token refreshed")
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := s.refreshTokenFromRequest(r)
	if err == nil {
		if err := s.app.Logout(r.Context(), refreshToken); err != nil {
			s.logger.WithError(err).Warn("failed to revoke refresh token on logout")
		}
	}

	s.clearTokenCookies(w)
	s.respond(w, http.StatusOK, nil, "logged out")
}

func (s *Service) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.ForgotPassword(r.Context(), input.Email); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "if the account exists, a reset mail has been sent")
}

func (s *Service) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &input); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.app.ResetPassword(r.Context(), input.Email, input.Code, input.Password); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, nil, "password updated")
}

// setTokenCookies stores both tokens in encrypted httpOnly cookies for
// browser clients. API clients can ignore them and use the body.
func (s *Service) setTokenCookies(w http.ResponseWriter, result *service.AuthResult) {

	encryptedAccess, err := s.cookie.Encode(cookieAccessToken, result.AccessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token cookie")
		return
	}

	encryptedRefresh, err := s.cookie.Encode(cookieRefreshToken, result.RefreshToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt refresh token cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieAccessToken,
		Value:    encryptedAccess,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Duration(s.config.AccessTokenTTLMin) * time.Minute / time.Second),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     cookieRefreshToken,
		Value:    encryptedRefresh,
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   s.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Duration(s.config.RefreshTokenTTLHrs) * time.Hour / time.Second),
	})
}

func (s *Service) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: cookieAccessToken, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: cookieRefreshToken, Value: "", Path: "/api/auth", MaxAge: -1})
}

func (s *Service) refreshTokenFromRequest(r *http.Request) (string, error) {

	cookie, err := r.Cookie(cookieRefreshToken)
	if err == nil {
		var refreshToken string
		if err := s.cookie.Decode(cookieRefreshToken, cookie.Value, &refreshToken); err == nil {
			return refreshToken, nil
		}
	}

	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &input); err == nil && input.RefreshToken != "" {
		return input.RefreshToken, nil
	}

	return "", types.NewStatusError(401, "refresh token required")
}
