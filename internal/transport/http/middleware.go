package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/mux"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/guard"
	"quiz-portal/internal/identity"
)

// sessionID returns the browser session identifier, minting and setting the
// cookie when the client has none yet.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(s.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := newSID()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func newSID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// requireRole evaluates the route guard on every request. Redirect decisions
// are silent (role mismatch is not an error); a loading auth state answers
// 202 so the client retries once sign-in settles.
func (s *Server) requireRole(required domain.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := s.sessionID(w, r)
			state := s.auth.State(sid)

			decision := s.guard.Authorize(state, required)
			switch decision.Kind {
			case guard.ShowLoading:
				writeJSON(w, http.StatusAccepted, map[string]string{"status": "loading"})
			case guard.Redirect:
				http.Redirect(w, r, decision.Location, http.StatusFound)
			default:
				next.ServeHTTP(w, r.WithContext(identity.WithState(r.Context(), state)))
			}
		})
	}
}
