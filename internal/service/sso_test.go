package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	mocks "github.com/opsdesk/opsdesk-api/internal/mocks/auth"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

type ssoFixture struct {
	svc      *SSOService
	provider *mocks.MockSSOProvider
	sessions *sessionFixture
}

func newSSOFixture(t *testing.T) *ssoFixture {
	t.Helper()

	sessions := newSessionFixture(t)
	f := &ssoFixture{
		provider: mocks.NewMockSSOProvider(),
		sessions: sessions,
	}
	f.svc = NewSSOService(SSOServiceOptions{
		Provider:  f.provider,
		Employees: sessions.employees,
		Sessions:  sessions.svc,
	})
	return f
}

func TestSSOService_BeginLogin(t *testing.T) {
	f := newSSOFixture(t)

	res, err := f.svc.BeginLogin(context.Background(), "https://app.example.com/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", res.AuthURL)
	assert.NotEmpty(t, res.State)
	assert.NotEmpty(t, res.Nonce)
}

func TestSSOService_BeginLogin_RequiresRedirectURL(t *testing.T) {
	f := newSSOFixture(t)

	_, err := f.svc.BeginLogin(context.Background(), "")
	assert.Error(t, err)
}

func TestSSOService_BeginLogin_ProviderError(t *testing.T) {
	f := newSSOFixture(t)
	f.provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("discovery unreachable")
	}

	_, err := f.svc.BeginLogin(context.Background(), "https://app.example.com/auth/callback")
	assert.ErrorContains(t, err, "begin sso flow")
}

func TestSSOService_CompleteLogin(t *testing.T) {
	f := newSSOFixture(t)
	e := activeEmployee()
	f.sessions.employees.Add(e, "")
	f.provider.Asserted = ports.SSOIdentity{Subject: "sub-1", Email: e.Email}

	issued, err := f.svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "code-1",
		State: "state-1",
		Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.KindEmployee, issued.Identity.IdentityKind())

	var snap identity.EmployeeSession
	require.NoError(t, f.sessions.codec.Decode(issued.Value, &snap))
	assert.Equal(t, e.ID, snap.EmployeeID)
}

func TestSSOService_CompleteLogin_MissingParams(t *testing.T) {
	f := newSSOFixture(t)

	cases := []CompleteLoginInput{
		{State: "s", Nonce: "n"},
		{Code: "c", Nonce: "n"},
		{Code: "c", State: "s"},
	}
	for _, in := range cases {
		_, err := f.svc.CompleteLogin(context.Background(), in)
		assert.Error(t, err)
	}
}

func TestSSOService_CompleteLogin_UnknownEmail(t *testing.T) {
	f := newSSOFixture(t)
	f.provider.Asserted = ports.SSOIdentity{Subject: "sub-1", Email: "nobody@example.com"}

	_, err := f.svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSSOService_CompleteLogin_InactiveEmployee(t *testing.T) {
	f := newSSOFixture(t)
	e := activeEmployee()
	e.Active = false
	f.sessions.employees.Add(e, "")
	f.provider.Asserted = ports.SSOIdentity{Subject: "sub-1", Email: e.Email}

	_, err := f.svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSSOService_CompleteLogin_ExchangeError(t *testing.T) {
	f := newSSOFixture(t)
	f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (ports.SSOIdentity, error) {
		return ports.SSOIdentity{}, errors.New("token endpoint 502")
	}

	_, err := f.svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	assert.ErrorContains(t, err, "exchange authorization code")
}
