package oidc

// Package oidc provides the OIDC/OAuth2 SSO adapter used when employee
// single sign-on is enabled. It asserts who the caller is; whether a
// session may be issued is still decided against the employee store.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/opsdesk/opsdesk-api/internal/ports"
	"golang.org/x/oauth2"
)

// Provider implements ports.SSOProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider from discovery.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{httpClient: httpClient}

	// Initialize go-oidc provider and verifier (single discovery fetch)
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Begin returns the provider auth URL with cryptographically secure state
// and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange completes the flow: code for token, id_token verification with
// nonce, and a userinfo fallback when the id_token lacks an email claim.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.SSOIdentity, error) {
	if in.Code == "" {
		return ports.SSOIdentity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return ports.SSOIdentity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return ports.SSOIdentity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return ports.SSOIdentity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	subject, email, err := p.extractFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return ports.SSOIdentity{}, fmt.Errorf("extract id_token: %w", err)
	}

	if email == "" {
		subject, email, err = p.fillFromUserInfo(ctx, token.AccessToken, subject, email)
		if err != nil {
			return ports.SSOIdentity{}, fmt.Errorf("get user info: %w", err)
		}
	}
	if email == "" {
		return ports.SSOIdentity{}, errors.New("provider returned no email claim")
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return ports.SSOIdentity{
		Subject:   subject,
		Email:     strings.ToLower(email),
		ExpiresAt: expiresAt,
	}, nil
}

type idTokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Mail  string `json:"mail"`
	Nonce string `json:"nonce"`
}

func (p *Provider) extractFromIDToken(
	ctx context.Context,
	tok *oauth2.Token,
	expectedNonce string,
) (subject, email string, err error) {
	rawID, ok := tok.Extra("id_token").(string)
	if !ok || rawID == "" {
		return "", "", errors.New("token response missing id_token")
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return "", "", fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return "", "", fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return "", "", errors.New("invalid nonce")
	}
	return claims.Sub, firstNonEmpty(claims.Email, claims.Mail), nil
}

func (p *Provider) fillFromUserInfo(
	ctx context.Context,
	accessToken string,
	subject, email string,
) (string, string, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return "", "", fmt.Errorf("fetch user info: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return "", "", fmt.Errorf("decode user info: %w", claimsErr)
	}
	return firstNonEmpty(subject, claims.Sub), firstNonEmpty(email, claims.Email, claims.Mail), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func generateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
