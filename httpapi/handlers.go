package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	authgate "github.com/authgate-dev/authgate"
	"github.com/authgate-dev/authgate/middleware"
)

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Bienvenue"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	_, err := s.svc.Register(r.Context(), email, password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"email":   email,
			"message": "user created",
		})
	case errors.Is(err, authgate.ErrAlreadyExists):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "email already registered",
		})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	sessionID, err := s.svc.Login(r.Context(), email, password)
	switch {
	case err == nil:
		writeSessionCookie(w, s.cookieName, sessionID)
		writeJSON(w, http.StatusOK, map[string]string{
			"email":   email,
			"message": "logged in",
		})
	case errors.Is(err, authgate.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := readSessionCookie(r, s.cookieName)
	if !ok || !s.svc.Logout(r.Context(), sessionID) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	clearSessionCookie(w, s.cookieName)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	// The gate resolves the principal under session strategies; fall back
	// to the cookie for deployments where /profile sits outside the gate.
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		writeJSON(w, http.StatusOK, map[string]string{"email": principal.Email})
		return
	}

	sessionID, ok := readSessionCookie(r, s.cookieName)
	if !ok {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	principal, err := s.svc.PrincipalBySession(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": principal.Email})
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")

	token, err := s.svc.IssueResetToken(r.Context(), email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"email":       email,
			"reset_token": token,
		})
	case errors.Is(err, authgate.ErrUserNotFound):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) handleResetApply(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	token := r.PostFormValue("reset_token")
	newPassword := r.PostFormValue("new_password")

	err := s.svc.ApplyReset(r.Context(), token, newPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"email":   email,
			"message": "Password updated",
		})
	case errors.Is(err, authgate.ErrInvalidToken):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
