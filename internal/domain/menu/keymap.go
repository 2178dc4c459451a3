package menu

// Package menu maps request paths to logical menu keys. A menu key is the
// unit of permission that the authorization layer grants or denies per
// employee.

import (
	"sort"
	"strings"
)

// Permission is a single (menu key, employee) grant. Absence of a row is
// the default-deny state for non-administrator employees.
type Permission struct {
	MenuKey    string `json:"menu_key"`
	EmployeeID string `json:"employee_id"`
	Allowed    bool   `json:"allowed"`
}

// Entry maps a path to a menu key. Paths are matched exact-first, then by
// longest declared prefix on a segment boundary, so /staff/approvals never
// falls back to the /staff entry and /staffing never matches /staff.
type Entry struct {
	Path string `json:"path"`
	Key  string `json:"key"`
}

// KeyMap resolves request paths to menu keys.
type KeyMap struct {
	exact    map[string]string
	byLength []Entry // sorted by path length descending
	exempt   []string
}

// exemptPrefixes are path prefixes that never require a menu permission
// check: the dashboard and its sub-paths, the auth pages, API routes, and
// static/framework asset paths. The /_next prefix survives from the
// original frontend and is kept so stale bookmarked asset URLs stay cheap.
var exemptPrefixes = []string{
	"/dashboard",
	"/portal",
	"/login",
	"/signup",
	"/api/",
	"/auth/",
	"/static/",
	"/_next/",
	"/healthz",
}

// NewKeyMap builds a KeyMap from entries. Match order is independent of
// declaration order: the longest matching prefix always wins.
func NewKeyMap(entries ...Entry) *KeyMap {
	m := &KeyMap{
		exact:    make(map[string]string, len(entries)),
		byLength: make([]Entry, 0, len(entries)),
		exempt:   exemptPrefixes,
	}
	for _, e := range entries {
		if e.Path == "" || e.Key == "" {
			continue
		}
		path := strings.TrimSuffix(e.Path, "/")
		if path == "" {
			path = "/"
		}
		m.exact[path] = e.Key
		m.byLength = append(m.byLength, Entry{Path: path, Key: e.Key})
	}
	sort.SliceStable(m.byLength, func(i, j int) bool {
		return len(m.byLength[i].Path) > len(m.byLength[j].Path)
	})
	return m
}

// DefaultKeyMap returns the application's menu table.
func DefaultKeyMap() *KeyMap {
	return NewKeyMap(
		Entry{Path: "/clients", Key: "client-directory"},
		Entry{Path: "/clients/approvals", Key: "client-approvals"},
		Entry{Path: "/vendors", Key: "vendor-directory"},
		Entry{Path: "/contracts", Key: "contract-list"},
		Entry{Path: "/contracts/new", Key: "contract-register"},
		Entry{Path: "/operations", Key: "operation-board"},
		Entry{Path: "/operations/reports", Key: "operation-reports"},
		Entry{Path: "/staff", Key: "staff-directory"},
		Entry{Path: "/staff/approvals", Key: "staff-approvals"},
		Entry{Path: "/settings/permissions", Key: "permission-admin"},
	)
}

// Entries returns the declared path→key table, longest path first.
func (m *KeyMap) Entries() []Entry {
	out := make([]Entry, len(m.byLength))
	copy(out, m.byLength)
	return out
}

// KeyFor resolves a path to its menu key. Exact matches take priority;
// otherwise the longest entry whose path is a segment-boundary prefix of
// the input wins. The second return is false when no entry applies.
func (m *KeyMap) KeyFor(path string) (string, bool) {
	path = normalize(path)
	if key, ok := m.exact[path]; ok {
		return key, true
	}
	for _, e := range m.byLength {
		if strings.HasPrefix(path, e.Path+"/") {
			return e.Key, true
		}
	}
	return "", false
}

// RequiresCheck reports whether the path is subject to a menu permission
// check. Exempt paths and paths with no mapping require none; an unmapped
// path is implicitly allowed if otherwise reachable.
func (m *KeyMap) RequiresCheck(path string) bool {
	path = normalize(path)
	for _, p := range m.exempt {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) ||
			strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return false
		}
	}
	_, ok := m.KeyFor(path)
	return ok
}

func normalize(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return path
}
