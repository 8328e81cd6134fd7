package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/platform/logger"
)

type contextKey string

const IdentityKey contextKey = "identity"

func identityFrom(ctx context.Context) (domain.Identity, bool) {
	who, ok := ctx.Value(IdentityKey).(domain.Identity)
	return who, ok
}

// Authenticate accepts a bearer token, or the access token cookie when no
// Authorization header is sent.
func Authenticate(verifier ports.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r)
			if err != nil {
				respondError(w, r, err)
				return
			}

			who, err := verifier.VerifyAccess(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					respondError(w, r, domain.Unauthorized("Token Expired!"))
					return
				}
				respondError(w, r, domain.Unauthorized("Invalid Token!"))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, who)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", domain.Unauthorized("No Token Or Invalid Token Format!")
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return "", domain.Unauthorized("No Token!")
		}
		return token, nil
	}

	cookie, err := r.Cookie(accessCookie)
	if err != nil {
		return "", domain.Unauthorized("No Token Or Invalid Token Format!")
	}
	if cookie.Value == "" {
		return "", domain.Unauthorized("No Token!")
	}
	return cookie.Value, nil
}

// RequireRole must run after Authenticate.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := identityFrom(r.Context())
			if !ok {
				respondError(w, r, domain.Unauthorized("No Token!"))
				return
			}
			if who.Role != role {
				respondError(w, r, domain.Forbidden("Forbidden!"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request and makes a request-scoped logger
// available to handlers.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLog := log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
			start := time.Now()

			defer func() {
				reqLog.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))
		})
	}
}
