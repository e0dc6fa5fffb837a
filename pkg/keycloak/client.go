package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// UpdatePassword is the required action that makes Keycloak email a
// password setup link.
const UpdatePassword = "UPDATE_PASSWORD"

// Token is the token endpoint response relayed to API clients.
type Token struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope,omitempty"`
	SessionState     string `json:"session_state,omitempty"`
}

// Client talks to the Keycloak token and admin endpoints.
type Client struct {
	cfg   Config
	http  *http.Client
	oauth *oauth2.Config
	admin *rate.Limiter
}

func NewClient(cfg Config, httpc *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}

	burst := int(cfg.AdminRequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		cfg:  cfg,
		http: httpc,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		admin: rate.NewLimiter(rate.Limit(cfg.AdminRequestsPerSecond), burst),
	}, nil
}

func (c *Client) Config() Config { return c.cfg }

// PasswordToken exchanges user credentials for tokens (password grant).
func (c *Client) PasswordToken(ctx context.Context, username, password string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return nil, classify(err)
	}

	out := &Token{
		AccessToken:  tok.AccessToken,
		ExpiresIn:    tok.ExpiresIn,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if v, ok := tok.Extra("refresh_expires_in").(float64); ok {
		out.RefreshExpiresIn = int64(v)
	}
	if v, ok := tok.Extra("scope").(string); ok {
		out.Scope = v
	}
	if v, ok := tok.Extra("session_state").(string); ok {
		out.SessionState = v
	}
	return out, nil
}

// ExecuteActionsEmail asks Keycloak to email userID a link performing the
// given required actions. bearer is the caller's own access token.
func (c *Client) ExecuteActionsEmail(ctx context.Context, bearer, userID string, actions []string) error {
	if err := c.admin.Wait(ctx); err != nil {
		return classify(err)
	}

	body, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encode actions: %w", err)
	}

	q := url.Values{}
	if c.cfg.ClientID != "" {
		q.Set("client_id", c.cfg.ClientID)
	}
	if c.cfg.RedirectURI != "" {
		q.Set("redirect_uri", c.cfg.RedirectURI)
	}
	endpoint := c.cfg.ExecuteActionsEmailURL(userID)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if msg := errorDescription(raw); msg != "" {
		return unauthorizedError(msg)
	}
	return upstreamError(fmt.Errorf("unexpected status %d", resp.StatusCode))
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorMessage     string `json:"errorMessage"`
}

func errorDescription(raw []byte) string {
	var b errorBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return ""
	}
	switch {
	case b.ErrorDescription != "":
		return b.ErrorDescription
	case b.Error != "":
		return b.Error
	default:
		return b.ErrorMessage
	}
}

// classify maps transport and OAuth errors onto *Error kinds.
func classify(err error) error {
	if isTimeout(err) {
		return timeoutError(err)
	}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch {
		case re.ErrorDescription != "":
			return unauthorizedError(re.ErrorDescription)
		case re.ErrorCode != "":
			return unauthorizedError(re.ErrorCode)
		}
		if msg := errorDescription(re.Body); msg != "" {
			return unauthorizedError(msg)
		}
	}
	return upstreamError(err)
}
