package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/IterDiff/internal/core"
	"github.com/JonMunkholm/IterDiff/internal/logging"
	webmw "github.com/JonMunkholm/IterDiff/internal/web/middleware"
)

type sessionCtxKey struct{}

// WithRequestMetadata adds IP and User-Agent to context for audit logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

// clientIP returns the host part of RemoteAddr, already rewritten by
// TrustedRealIP when the request came through a trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// sessionMiddleware attaches the caller's comparison session, creating one
// and setting the cookie when the request has none or it expired.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			id = c.Value
		}

		sess, created := s.service.Session(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		webmw.ReportSessionID(r.Context(), sess.ID)

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		ctx = logging.WithSessionID(ctx, sess.ID)
		ctx = WithRequestMetadata(ctx, r)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by sessionMiddleware.
func sessionFrom(r *http.Request) *core.Session {
	sess, _ := r.Context().Value(sessionCtxKey{}).(*core.Session)
	return sess
}
