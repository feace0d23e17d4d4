package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Sessions is what the handlers need from the session layer;
// *session.Store satisfies it.
type Sessions interface {
	Bind(ctx context.Context, sessionID, userID string) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Drop(ctx context.Context, sessionID string) error
	Flash(ctx context.Context, sessionID, message string) error
	PopFlashes(ctx context.Context, sessionID string) ([]string, error)
}

const sessionCookie = "session_id"

type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxUserID
)

// WithSession guarantees every request carries a session id, minting a
// cookie on first contact.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			sid = c.Value
		} else {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionID, sid)))
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(ctxSessionID).(string)
	return sid
}

// RequireUser resolves the session's user binding and rejects anonymous
// requests.
func RequireUser(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.Lookup(r.Context(), sessionID(r))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserID, userID)))
		})
	}
}

func userID(r *http.Request) string {
	uid, _ := r.Context().Value(ctxUserID).(string)
	return uid
}
