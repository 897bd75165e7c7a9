package http

import (
	"net/http"

	"go.uber.org/zap"

	"quiz-portal/internal/domain"
)

// handleLogin hands the browser off to the identity provider's hosted
// sign-in. The session id rides along as OAuth state so the callback can
// match the exchange to the right session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	s.auth.SetLoading(sid)
	http.Redirect(w, r, s.provider.SignInURL(sid), http.StatusFound)
}

// handleCallback completes the sign-in: exchange the code, resolve the role
// from the principal's groups and forward to the matching dashboard.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.auth.SetError(sid)
		s.logger.Warn("identity provider returned error", zap.String("error", errParam))
		writeJSON(w, http.StatusBadGateway, errorPayload{Error: "sign-in failed, please retry"})
		return
	}
	// The state parameter must echo the sid sent at /login; anything else is
	// a response this session never initiated.
	if state := r.URL.Query().Get("state"); state != sid {
		s.auth.SetError(sid)
		s.logger.Warn("oauth state mismatch", zap.String("sid", sid))
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "state mismatch"})
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		s.auth.SetError(sid)
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "missing authorization code"})
		return
	}

	principal, err := s.provider.Exchange(r.Context(), code)
	if err != nil {
		s.auth.SetError(sid)
		s.logger.Error("token exchange failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorPayload{Error: "sign-in failed, please retry"})
		return
	}
	s.auth.SetAuthenticated(sid, principal)

	if s.guard.Resolver.Ambiguous(principal.Groups) {
		// Admin precedence applies, but a principal holding both markers is
		// a configuration smell worth surfacing.
		s.logger.Warn("principal holds both admin and user group markers",
			zap.String("subject", principal.Subject))
	}

	if s.guard.Resolver.Resolve(principal.Groups) == domain.RoleAdmin {
		http.Redirect(w, r, s.guard.AdminHome, http.StatusFound)
		return
	}
	http.Redirect(w, r, s.guard.UserHome, http.StatusFound)
}

// handleLogout drops the principal and forwards to the provider's sign-out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	s.auth.Clear(sid)
	http.Redirect(w, r, s.provider.SignOutURL(), http.StatusFound)
}
