package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"

	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/oauth"
)

const (
	stateCookie    = "oauthstate"
	stateCookieTTL = 600
)

func (s *HTTPServer) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	state, err := oauth.NewState()
	if err != nil {
		s.logger.Error(r.Context(), "oauth state", "error", err)
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   stateCookieTTL,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.google.AuthCodeURL(state), http.StatusFound)
}

func (s *HTTPServer) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/auth/google", MaxAge: -1})

	q := r.URL.Query()
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(q.Get("state"))) != 1 {
		s.logger.Warn(r.Context(), "oauth callback rejected", "reason", "state mismatch")
		s.redirectFailure(w, r, "invalid_state")
		return
	}
	if q.Get("error") != "" {
		s.logger.Warn(r.Context(), "oauth callback rejected", "reason", "provider error")
		s.redirectFailure(w, r, "access_denied")
		return
	}

	profile, err := s.google.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		s.logger.Warn(r.Context(), "oauth exchange failed", "error", err)
		s.redirectFailure(w, r, "auth_failed")
		return
	}

	sess, outcome, err := s.users.LoginExternal(r.Context(), profile)
	if err != nil {
		s.logFailure(r, "external login failed", err)
		s.redirectFailure(w, r, failureCode(err))
		return
	}
	s.logger.Info(r.Context(), "external login", "user_id", sess.Account.ID, "outcome", outcome)

	http.Redirect(w, r, s.frontendURL+"/auth/success?token="+url.QueryEscape(sess.Token), http.StatusFound)
}

func (s *HTTPServer) redirectFailure(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, s.frontendURL+"/login?error="+url.QueryEscape(code), http.StatusFound)
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, common.ErrEmailNotVerified):
		return "email_not_verified"
	case errors.Is(err, common.ErrMissingFields):
		return "incomplete_profile"
	case errors.Is(err, common.ErrConflict):
		return "account_conflict"
	default:
		return "auth_failed"
	}
}
