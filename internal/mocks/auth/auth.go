package auth

// Package auth contains simple hand-written test doubles for identity and
// authorization ports. These are lightweight and suitable for unit tests
// without codegen.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/opsdesk/opsdesk-api/internal/data"
	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
	"github.com/opsdesk/opsdesk-api/internal/domain/menu"
	"github.com/opsdesk/opsdesk-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.EmployeeStore       = (*FakeEmployeeStore)(nil)
	_ ports.ClientStore         = (*FakeClientStore)(nil)
	_ ports.MenuPermissionStore = (*MemoryMenuPermissionStore)(nil)
	_ ports.PasswordHasher      = PlainHasher{}
	_ ports.LoginLimiter        = (*CountingLimiter)(nil)
	_ ports.SSOProvider         = (*MockSSOProvider)(nil)
)

// FakeEmployeeStore serves employees from in-memory maps. Err, when set,
// is returned from every lookup to simulate a store outage.
type FakeEmployeeStore struct {
	Employees map[string]identity.Employee            // by ID
	Creds     map[string]identity.EmployeeCredentials // by email
	Err       error
}

// NewFakeEmployeeStore creates an empty store.
func NewFakeEmployeeStore() *FakeEmployeeStore {
	return &FakeEmployeeStore{
		Employees: map[string]identity.Employee{},
		Creds:     map[string]identity.EmployeeCredentials{},
	}
}

// Add registers an employee, optionally with login credentials.
func (f *FakeEmployeeStore) Add(e identity.Employee, passwordHash string) {
	f.Employees[e.ID] = e
	if passwordHash != "" {
		f.Creds[strings.ToLower(e.Email)] = identity.EmployeeCredentials{Employee: e, PasswordHash: passwordHash}
	}
}

func (f *FakeEmployeeStore) FindByID(_ context.Context, id string, mustBeActive bool) (identity.Employee, error) {
	if f.Err != nil {
		return identity.Employee{}, f.Err
	}
	e, ok := f.Employees[id]
	if !ok || (mustBeActive && !e.Active) {
		return identity.Employee{}, data.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *FakeEmployeeStore) FindByEmail(_ context.Context, email string, mustBeActive bool) (identity.Employee, error) {
	if f.Err != nil {
		return identity.Employee{}, f.Err
	}
	for _, e := range f.Employees {
		if strings.EqualFold(e.Email, email) {
			if mustBeActive && !e.Active {
				break
			}
			return e, nil
		}
	}
	return identity.Employee{}, data.ErrEmployeeNotFound
}

func (f *FakeEmployeeStore) CredentialsByEmail(_ context.Context, email string) (identity.EmployeeCredentials, error) {
	if f.Err != nil {
		return identity.EmployeeCredentials{}, f.Err
	}
	c, ok := f.Creds[strings.ToLower(email)]
	if !ok || !c.Active {
		return identity.EmployeeCredentials{}, data.ErrEmployeeNotFound
	}
	return c, nil
}

// FakeClientStore serves clients from in-memory maps.
type FakeClientStore struct {
	Clients map[string]identity.Client            // by ID
	Creds   map[string]identity.ClientCredentials // by login handle
	Err     error
}

// NewFakeClientStore creates an empty store.
func NewFakeClientStore() *FakeClientStore {
	return &FakeClientStore{
		Clients: map[string]identity.Client{},
		Creds:   map[string]identity.ClientCredentials{},
	}
}

// Add registers a client, optionally with login credentials.
func (f *FakeClientStore) Add(c identity.Client, passwordHash string) {
	f.Clients[c.ID] = c
	if passwordHash != "" {
		f.Creds[c.LoginHandle] = identity.ClientCredentials{Client: c, PasswordHash: passwordHash}
	}
}

func (f *FakeClientStore) FindByID(_ context.Context, id string, mustBeApproved bool) (identity.Client, error) {
	if f.Err != nil {
		return identity.Client{}, f.Err
	}
	c, ok := f.Clients[id]
	if !ok || (mustBeApproved && c.Status != identity.ClientApproved) {
		return identity.Client{}, data.ErrClientNotFound
	}
	return c, nil
}

func (f *FakeClientStore) CredentialsByHandle(_ context.Context, handle string) (identity.ClientCredentials, error) {
	if f.Err != nil {
		return identity.ClientCredentials{}, f.Err
	}
	c, ok := f.Creds[handle]
	if !ok || c.Status != identity.ClientApproved {
		return identity.ClientCredentials{}, data.ErrClientNotFound
	}
	return c, nil
}

// MemoryMenuPermissionStore keeps grants keyed by (menu key, employee).
// FindErr and UpsertErr, when set, are returned from the respective calls.
// Safe for concurrent use; bulk saves write in parallel.
type MemoryMenuPermissionStore struct {
	mu        sync.Mutex
	Grants    map[string]menu.Permission
	FindErr   error
	UpsertErr error
}

// NewMemoryMenuPermissionStore creates an empty permission store.
func NewMemoryMenuPermissionStore() *MemoryMenuPermissionStore {
	return &MemoryMenuPermissionStore{Grants: map[string]menu.Permission{}}
}

// Grant stores an allowed=true row for the pair.
func (m *MemoryMenuPermissionStore) Grant(employeeID, menuKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Grants[menuKey+"/"+employeeID] = menu.Permission{MenuKey: menuKey, EmployeeID: employeeID, Allowed: true}
}

func (m *MemoryMenuPermissionStore) Find(_ context.Context, employeeID, menuKey string) (menu.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return menu.Permission{}, m.FindErr
	}
	p, ok := m.Grants[menuKey+"/"+employeeID]
	if !ok {
		return menu.Permission{}, data.ErrMenuPermissionNotFound
	}
	return p, nil
}

func (m *MemoryMenuPermissionStore) Upsert(_ context.Context, p menu.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Grants[p.MenuKey+"/"+p.EmployeeID] = p
	return nil
}

func (m *MemoryMenuPermissionStore) ListAll(_ context.Context) ([]menu.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]menu.Permission, 0, len(m.Grants))
	for _, p := range m.Grants {
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryMenuPermissionStore) ListByMenuKey(_ context.Context, menuKey string) ([]menu.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []menu.Permission
	for _, p := range m.Grants {
		if p.MenuKey == menuKey {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryMenuPermissionStore) ListByEmployee(_ context.Context, employeeID string) ([]menu.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []menu.Permission
	for _, p := range m.Grants {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	return out, nil
}

// PlainHasher is a transparent hasher for tests: the "hash" is the plain
// text with a fixed prefix, so fixtures stay readable.
type PlainHasher struct{}

func (PlainHasher) Hash(plain string) (string, error) { return "plain:" + plain, nil }

func (PlainHasher) Verify(plain, hash string) bool { return hash == "plain:"+plain }

// CountingLimiter records limiter traffic. Blocked, when set, denies every
// attempt; AllowErr simulates a limiter backend outage.
type CountingLimiter struct {
	Blocked  bool
	AllowErr error
	Failures map[string]int
	Resets   []string
}

// NewCountingLimiter creates an empty limiter.
func NewCountingLimiter() *CountingLimiter {
	return &CountingLimiter{Failures: map[string]int{}}
}

func (l *CountingLimiter) Allow(_ context.Context, _ string) (bool, error) {
	if l.AllowErr != nil {
		return false, l.AllowErr
	}
	return !l.Blocked, nil
}

func (l *CountingLimiter) RecordFailure(_ context.Context, identifier string) error {
	l.Failures[identifier]++
	return nil
}

func (l *CountingLimiter) Reset(_ context.Context, identifier string) error {
	l.Resets = append(l.Resets, identifier)
	return nil
}

// MockSSOProvider simulates an IdP with deterministic state/nonce values.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.SSOIdentity, error)

	AuthURL  string
	Asserted ports.SSOIdentity

	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL: "https://mock-idp/auth",
		Asserted: ports.SSOIdentity{
			Subject: "mock-subject-1",
			Email:   "mock.user@example.com",
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.callCount++
	return m.AuthURL, fmt.Sprintf("state-%d", m.callCount), fmt.Sprintf("nonce-%d", m.callCount), nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.SSOIdentity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	asserted := m.Asserted
	if asserted.ExpiresAt.IsZero() {
		asserted.ExpiresAt = time.Now().Add(time.Hour)
	}
	return asserted, nil
}
