package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyMap_KeyFor_ExactMatch(t *testing.T) {
	m := DefaultKeyMap()

	key, ok := m.KeyFor("/clients")
	require.True(t, ok)
	assert.Equal(t, "client-directory", key)

	key, ok = m.KeyFor("/settings/permissions")
	require.True(t, ok)
	assert.Equal(t, "permission-admin", key)
}

func TestKeyMap_KeyFor_LongestPrefixWins(t *testing.T) {
	m := DefaultKeyMap()

	// /staff/approvals has its own entry and must not fall back to /staff.
	key, ok := m.KeyFor("/staff/approvals")
	require.True(t, ok)
	assert.Equal(t, "staff-approvals", key)

	// A sub-path of the longer entry resolves to the longer entry.
	key, ok = m.KeyFor("/staff/approvals/42")
	require.True(t, ok)
	assert.Equal(t, "staff-approvals", key)

	// Other /staff sub-paths still resolve to the shorter entry.
	key, ok = m.KeyFor("/staff/42/edit")
	require.True(t, ok)
	assert.Equal(t, "staff-directory", key)
}

func TestKeyMap_KeyFor_DeclarationOrderIrrelevant(t *testing.T) {
	shortFirst := NewKeyMap(
		Entry{Path: "/ops", Key: "ops"},
		Entry{Path: "/ops/reports", Key: "ops-reports"},
	)
	longFirst := NewKeyMap(
		Entry{Path: "/ops/reports", Key: "ops-reports"},
		Entry{Path: "/ops", Key: "ops"},
	)

	for _, m := range []*KeyMap{shortFirst, longFirst} {
		key, ok := m.KeyFor("/ops/reports/monthly")
		require.True(t, ok)
		assert.Equal(t, "ops-reports", key)
	}
}

func TestKeyMap_KeyFor_SegmentBoundary(t *testing.T) {
	m := DefaultKeyMap()

	// /staffing shares a string prefix with /staff but is not under it.
	_, ok := m.KeyFor("/staffing")
	assert.False(t, ok)

	_, ok = m.KeyFor("/contractsarchive")
	assert.False(t, ok)
}

func TestKeyMap_KeyFor_Normalization(t *testing.T) {
	m := DefaultKeyMap()

	key, ok := m.KeyFor("/clients/")
	require.True(t, ok)
	assert.Equal(t, "client-directory", key)

	key, ok = m.KeyFor("/clients?page=2")
	require.True(t, ok)
	assert.Equal(t, "client-directory", key)
}

func TestKeyMap_KeyFor_Unmapped(t *testing.T) {
	m := DefaultKeyMap()

	_, ok := m.KeyFor("/nowhere")
	assert.False(t, ok)
	_, ok = m.KeyFor("/")
	assert.False(t, ok)
}

func TestKeyMap_RequiresCheck(t *testing.T) {
	m := DefaultKeyMap()

	assert.True(t, m.RequiresCheck("/clients"))
	assert.True(t, m.RequiresCheck("/staff/approvals"))

	// Exempt prefixes never require a check.
	assert.False(t, m.RequiresCheck("/dashboard"))
	assert.False(t, m.RequiresCheck("/dashboard/widgets"))
	assert.False(t, m.RequiresCheck("/portal"))
	assert.False(t, m.RequiresCheck("/login"))
	assert.False(t, m.RequiresCheck("/api/clients"))
	assert.False(t, m.RequiresCheck("/healthz"))

	// Unmapped paths require no check either.
	assert.False(t, m.RequiresCheck("/nowhere"))
}

func TestKeyMap_Entries(t *testing.T) {
	m := NewKeyMap(
		Entry{Path: "/a", Key: "a"},
		Entry{Path: "/a/b/c", Key: "abc"},
		Entry{Path: "/a/b", Key: "ab"},
	)

	entries := m.Entries()
	require.Len(t, entries, 3)
	// Longest path first.
	assert.Equal(t, "/a/b/c", entries[0].Path)
	assert.Equal(t, "/a/b", entries[1].Path)
	assert.Equal(t, "/a", entries[2].Path)

	// Mutating the returned slice must not affect the map.
	entries[0].Key = "changed"
	key, ok := m.KeyFor("/a/b/c")
	require.True(t, ok)
	assert.Equal(t, "abc", key)
}

func TestNewKeyMap_SkipsBlankEntries(t *testing.T) {
	m := NewKeyMap(
		Entry{Path: "", Key: "x"},
		Entry{Path: "/x", Key: ""},
		Entry{Path: "/ok", Key: "ok"},
	)
	assert.Len(t, m.Entries(), 1)
}
