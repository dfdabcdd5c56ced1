package server

import (
	"encoding/json"
	"net/http"
)

const refreshCookieName = "refreshToken"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// RegisterHandler creates a user and issues the first token pair.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
			return
		}

		session, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setRefreshCookie(w, session.RefreshToken)
		writeJSON(w, http.StatusCreated, sessionResponse{
			User:         session.User,
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
		})
	}
}

// LoginHandler verifies credentials and issues a token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
			return
		}

		session, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setRefreshCookie(w, session.RefreshToken)
		writeJSON(w, http.StatusOK, sessionResponse{
			User:         session.User,
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
		})
	}
}

// RefreshHandler exchanges a valid refresh token for a new access token.
// The refresh token itself stays valid and is not rotated.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshed, err := s.auth.Refresh(r.Context(), refreshTokenFromRequest(r))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": refreshed.AccessToken,
			"expiresIn":   refreshed.ExpiresIn,
		})
	}
}

// MeHandler returns the authenticated user's profile.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		user, err := s.auth.UserByID(r.Context(), claims.UserID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// LogoutHandler revokes the session behind the refresh token, if any, and
// clears the cookie. It always returns 200.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Logout(r.Context(), refreshTokenFromRequest(r))
		s.clearRefreshCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

// refreshTokenFromRequest extracts the refresh token. Sources are checked
// in priority order: cookie, JSON body field, custom header.
func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if r.Body != nil {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		// An empty or non-JSON body is fine; fall through to the header.
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.RefreshToken != "" {
			return body.RefreshToken
		}
	}

	return r.Header.Get("X-Refresh-Token")
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(s.config.RefreshTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
