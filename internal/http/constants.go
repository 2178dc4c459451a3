package httpx

// Session cookie slots. One per identity kind; both are signed, httpOnly,
// path "/" and sameSite=lax. Identity resolution always prefers the
// employee slot.
const (
	EmployeeSessionCookie = "employee_session"
	ClientSessionCookie   = "client_session"
)

// Short-lived cookies pinning the SSO flow between Begin and Callback.
const (
	ssoStateCookie    = "sso_state"
	ssoNonceCookie    = "sso_nonce"
	ssoRedirectCookie = "sso_redirect"
)
