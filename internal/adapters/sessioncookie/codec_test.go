package sessioncookie

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/opsdesk-api/internal/domain/identity"
)

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	c, err := New([]byte("test-secret"))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCodec_RoundTrip(t *testing.T) {
	c, err := New([]byte("test-secret"))
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := identity.NewEmployeeSession(identity.Employee{
		ID:          "e1",
		Email:       "ann@example.com",
		DisplayName: "Ann",
		Role:        &identity.Role{ID: "r1", Name: "admin", Level: 1},
		Active:      true,
	}, now, time.Hour)

	value, err := c.Encode(in)
	require.NoError(t, err)
	assert.Contains(t, value, ".")

	var out identity.EmployeeSession
	require.NoError(t, c.Decode(value, &out))
	assert.Equal(t, in, out)
}

func TestCodec_Decode_Tampered(t *testing.T) {
	c, err := New([]byte("test-secret"))
	require.NoError(t, err)

	value, err := c.Encode(identity.EmployeeSession{EmployeeID: "e1"})
	require.NoError(t, err)

	body, tag, ok := strings.Cut(value, ".")
	require.True(t, ok)

	// Flip a payload byte; the signature no longer matches.
	mutated := "A" + body[1:]
	if mutated == body {
		mutated = "B" + body[1:]
	}

	var out identity.EmployeeSession
	assert.ErrorIs(t, c.Decode(mutated+"."+tag, &out), ErrInvalid)
}

func TestCodec_Decode_WrongSecret(t *testing.T) {
	c1, err := New([]byte("secret-one"))
	require.NoError(t, err)
	c2, err := New([]byte("secret-two"))
	require.NoError(t, err)

	value, err := c1.Encode(identity.ClientSession{ClientID: "c1"})
	require.NoError(t, err)

	var out identity.ClientSession
	assert.ErrorIs(t, c2.Decode(value, &out), ErrInvalid)
}

func TestCodec_Decode_Malformed(t *testing.T) {
	c, err := New([]byte("test-secret"))
	require.NoError(t, err)

	var out identity.EmployeeSession
	for _, value := range []string{"", "no-dot", ".", "body.", ".tag", "!!!.!!!"} {
		assert.ErrorIs(t, c.Decode(value, &out), ErrInvalid, value)
	}
}
