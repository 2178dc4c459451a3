package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/opsdesk/opsdesk-api/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity resolves the caller's identity once per request from the two
// session cookie slots, clears whichever slots came back stale, and stows
// the identity in the request context. Handlers downstream read the context
// instead of re-parsing cookies.
func WithIdentity(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := sessions.Current(r.Context(), currentInput(r))
			if res.ClearEmployee {
				clearCookie(w, r, EmployeeSessionCookie)
			}
			if res.ClearClient {
				clearCookie(w, r, ClientSessionCookie)
			}
			ctx := SetIdentityInContext(r.Context(), res.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func currentInput(r *http.Request) service.CurrentInput {
	var in service.CurrentInput
	if c, err := r.Cookie(EmployeeSessionCookie); err == nil {
		in.EmployeeCookie = c.Value
	}
	if c, err := r.Cookie(ClientSessionCookie); err == nil {
		in.ClientCookie = c.Value
	}
	return in
}

// EdgeGuard cheaply redirects anonymous browser traffic on protected view
// prefixes to login, checking only cookie presence. It is not an authority
// boundary: stale cookies pass here and are caught by the page-level check,
// which must never be skipped.
func EdgeGuard(protectedPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pathHasPrefix(r.URL.Path, protectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := r.Cookie(EmployeeSessionCookie); err == nil {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := r.Cookie(ClientSessionCookie); err == nil {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, "/login?redirect_uri="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
		})
	}
}

func pathHasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RequireIdentity rejects requests with no valid session of either kind.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireEmployee rejects requests whose session is not a revalidated
// employee.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := EmployeeFromContext(r.Context()); !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "employee_required",
				Err:     errors.New("employee session required"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects employees below the administrator role level. The
// menu-permission admin surface sits behind this rather than relying on
// page-layer convention.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e, ok := EmployeeFromContext(r.Context())
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "employee_required",
				Err:     errors.New("employee session required"),
			})
			return
		}
		if !e.IsAdmin() {
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "admin_required",
				Err:     errors.New("administrator role required"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
