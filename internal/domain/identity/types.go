package identity

// Package identity contains domain-level types for the two authenticated
// principal kinds and their sessions. It is pure and free of
// framework/adapter concerns.

import "time"

// Kind discriminates the two identity variants. A session is exactly one
// kind at a time; no session may carry both.
type Kind string

const (
	KindEmployee Kind = "employee"
	KindClient   Kind = "client"
)

// AdminRoleLevel is the role level that bypasses all menu permission checks.
// Lower levels are more senior; 1 is the administrator.
const AdminRoleLevel = 1

// Role is the normalized role value joined onto an employee.
// The store adapter normalizes whatever shape the backing rows have into
// this single type; callers never branch on shape.
type Role struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Employee is the internal staff identity, governed by the active flag and
// an optional role.
type Employee struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        *Role  `json:"role,omitempty"` // nil when no role is assigned
	Active      bool   `json:"active"`
}

// IsAdmin reports whether the employee holds the administrator role level.
func (e Employee) IsAdmin() bool {
	return e.Role != nil && e.Role.Level == AdminRoleLevel
}

// RoleLevel returns the employee's role level, or 0 when no role is assigned.
// 0 is never a valid level, so it always fails the admin bypass.
func (e Employee) RoleLevel() int {
	if e.Role == nil {
		return 0
	}
	return e.Role.Level
}

// ClientStatus is the approval status of an external business account.
type ClientStatus string

const (
	ClientPending   ClientStatus = "pending"
	ClientApproved  ClientStatus = "approved"
	ClientRejected  ClientStatus = "rejected"
	ClientSuspended ClientStatus = "suspended"
	ClientClosed    ClientStatus = "closed"
)

// Valid reports whether s is one of the known client statuses.
func (s ClientStatus) Valid() bool {
	switch s {
	case ClientPending, ClientApproved, ClientRejected, ClientSuspended, ClientClosed:
		return true
	}
	return false
}

// Client is the external business-account identity, governed by approval
// status. Only approved clients may hold a live session.
type Client struct {
	ID          string       `json:"id"`
	LoginHandle string       `json:"login_handle"`
	DisplayName string       `json:"display_name"`
	Status      ClientStatus `json:"status"`
}

// Identity is the sum of the two principal variants. The concrete types are
// Employee and Client; nothing else implements it.
type Identity interface {
	IdentityKind() Kind
	// HomePath is the identity's post-login landing view.
	HomePath() string
}

func (Employee) IdentityKind() Kind { return KindEmployee }
func (Client) IdentityKind() Kind   { return KindClient }

func (Employee) HomePath() string { return "/dashboard" }
func (Client) HomePath() string   { return "/portal" }

// EmployeeSession is the snapshot embedded in the employee cookie slot.
// Authorization-affecting fields are recomputed from the backing store on
// every validation; the snapshot is a lookup hint, not the source of truth.
type EmployeeSession struct {
	EmployeeID  string    `json:"employee_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	RoleID      *string   `json:"role_id,omitempty"`
	RoleLevel   *int      `json:"role_level,omitempty"`
	RoleName    *string   `json:"role_name,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ClientSession is the snapshot embedded in the client cookie slot.
type ClientSession struct {
	ClientID    string       `json:"client_id"`
	LoginHandle string       `json:"login_handle"`
	DisplayName string       `json:"display_name"`
	Status      ClientStatus `json:"status"`
	IssuedAt    time.Time    `json:"issued_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// NewEmployeeSession captures an employee snapshot with the given lifetime.
func NewEmployeeSession(e Employee, now time.Time, ttl time.Duration) EmployeeSession {
	s := EmployeeSession{
		EmployeeID:  e.ID,
		Email:       e.Email,
		DisplayName: e.DisplayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}
	if e.Role != nil {
		id, level, name := e.Role.ID, e.Role.Level, e.Role.Name
		s.RoleID, s.RoleLevel, s.RoleName = &id, &level, &name
	}
	return s
}

// NewClientSession captures a client snapshot with the given lifetime.
func NewClientSession(c Client, now time.Time, ttl time.Duration) ClientSession {
	return ClientSession{
		ClientID:    c.ID,
		LoginHandle: c.LoginHandle,
		DisplayName: c.DisplayName,
		Status:      c.Status,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}
}

// EmployeeCredentials pairs an employee with its stored password hash.
// Returned only by the credential lookup used at login.
type EmployeeCredentials struct {
	Employee
	PasswordHash string
}

// ClientCredentials pairs a client with its stored password hash.
type ClientCredentials struct {
	Client
	PasswordHash string
}
