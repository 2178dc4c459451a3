package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/service"
)

// SSOHandlers provides the browser-facing employee SSO flow. Routes are
// only registered when SSO mode is enabled.
type SSOHandlers struct {
	Svc      *service.SSOService
	Sessions *service.SessionService
	Logger   *slog.Logger
}

func (h *SSOHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleBegin handles GET /auth/sso/login?redirect_uri=<path>. It pins
// state, nonce and the intended destination in short-lived cookies and
// sends the browser to the identity provider.
func (h *SSOHandlers) HandleBegin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"), "/dashboard")

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin sso login", "err", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: errors.New("could not start login")})
		return
	}

	setFlowCookie(w, r, ssoStateCookie, result.State)
	setFlowCookie(w, r, ssoNonceCookie, result.Nonce)
	setFlowCookie(w, r, ssoRedirectCookie, redirectURI)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// HandleCallback handles GET /auth/sso/callback?code=<code>&state=<state>.
// On success it sets the employee cookie slot and returns the browser to
// the destination pinned at Begin.
func (h *SSOHandlers) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_params", Err: errors.New("code and state are required")})
		return
	}

	stateCookie, err := r.Cookie(ssoStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state", Err: errors.New("invalid or missing state parameter")})
		return
	}
	nonceCookie, err := r.Cookie(ssoNonceCookie)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_nonce", Err: errors.New("missing nonce cookie")})
		return
	}

	issued, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "not_provisioned", Err: errors.New("no active employee account for this login")})
			return
		}
		h.logger().ErrorContext(r.Context(), "complete sso login", "err", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_completion_failed", Err: errors.New("could not complete login")})
		return
	}

	setSessionCookie(w, r, EmployeeSessionCookie, issued.Value, h.Sessions.TTL())
	clearCookie(w, r, ssoStateCookie)
	clearCookie(w, r, ssoNonceCookie)

	redirectURI := "/dashboard"
	if c, cookieErr := r.Cookie(ssoRedirectCookie); cookieErr == nil {
		redirectURI = safeRedirectPath(c.Value, redirectURI)
	}
	clearCookie(w, r, ssoRedirectCookie)

	http.Redirect(w, r, redirectURI, http.StatusFound)
}
