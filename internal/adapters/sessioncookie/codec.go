package sessioncookie

// Package sessioncookie signs and verifies the session snapshots carried in
// the two cookie slots. The cookie value is base64url(JSON payload) "." and
// a base64url HMAC-SHA256 tag over the payload. The payload is readable by
// the holder; the signature only guarantees it was issued by us unmodified.

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned for any value that fails to parse or verify.
// Callers treat it as "no session"; the reason is never surfaced to the
// client.
var ErrInvalid = errors.New("invalid session cookie")

// Codec implements ports.SessionCodec with an HMAC-SHA256 signature.
type Codec struct {
	secret []byte
}

// New creates a Codec. The secret must be non-empty; session integrity
// depends entirely on it.
func New(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	return &Codec{secret: secret}, nil
}

// Encode marshals v and appends the signature.
func (c *Codec) Encode(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + c.sign(body), nil
}

// Decode verifies the signature and unmarshals the payload into dst.
// Any malformed or tampered value yields ErrInvalid.
func (c *Codec) Decode(value string, dst any) error {
	body, tag, ok := strings.Cut(value, ".")
	if !ok || body == "" || tag == "" {
		return ErrInvalid
	}
	if !hmac.Equal([]byte(c.sign(body)), []byte(tag)) {
		return ErrInvalid
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return ErrInvalid
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return ErrInvalid
	}
	return nil
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
