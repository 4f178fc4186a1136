package wcaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	wcametrics "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Flow is the OAuth flow a client was authenticated with.
type Flow int

const (
	FlowExplicit Flow = iota
	FlowImplicit
)

func (f Flow) String() string {
	if f == FlowImplicit {
		return "implicit"
	}
	return "explicit"
}

// Client talks to the WCA API on behalf of one user. It is safe for
// concurrent use. Requests are never retried.
type Client struct {
	flow    Flow
	oauth   oauth2.Config
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	metrics wcametrics.Metrics
	logger  *slog.Logger

	mu     sync.Mutex
	token  *oauth2.Token
	scopes []Scope
}

func (c *Client) Flow() Flow {
	return c.flow
}

// Token returns a copy of the current token.
func (c *Client) Token() oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.token
}

// Scopes returns the granted scopes.
func (c *Client) Scopes() []Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.scopes)
}

func (c *Client) HasScope(s Scope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.scopes, s)
}

func (c *Client) setToken(tok *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = tok
	if granted, ok := tok.Extra("scope").(string); ok && granted != "" {
		c.scopes = ParseScopes(granted)
	}
}

func (c *Client) requireScope(s Scope) error {
	if !c.HasScope(s) {
		return fmt.Errorf("%w: %s", ErrScopeNotGranted, s)
	}
	return nil
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

// Fetch downloads the WCIF document of a competition.
func (c *Client) Fetch(ctx context.Context, competitionID string) (string, error) {
	body, err := c.do(ctx, "fetch", http.MethodGet, c.wcifURL(competitionID), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Send patches the WCIF document of a competition and returns the response
// body.
func (c *Client) Send(ctx context.Context, competitionID, wcif string) (string, error) {
	if err := c.requireScope(ScopeManageCompetitions); err != nil {
		return "", err
	}
	body, err := c.do(ctx, "send", http.MethodPatch, c.wcifURL(competitionID), []byte(wcif))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListCompetitions returns the competitions the user manages.
func (c *Client) ListCompetitions(ctx context.Context) ([]Competition, error) {
	if err := c.requireScope(ScopeManageCompetitions); err != nil {
		return nil, err
	}
	u := c.baseURL.JoinPath("competitions")
	u.RawQuery = url.Values{"managed_by_me": {"true"}}.Encode()

	body, err := c.do(ctx, "list_competitions", http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var out []Competition
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode competitions: %w", ErrIO, err)
	}
	return out, nil
}

// Refresh exchanges the refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context) error {
	if c.flow == FlowImplicit {
		return ErrRefreshUnsupported
	}
	current := c.Token()
	if current.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token", ErrAuth)
	}

	// A token without an access token always counts as expired, so the
	// source goes straight to the token endpoint.
	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: current.RefreshToken})
	tok, err := src.Token()
	c.metrics.RecordTokenGrant(ctx, "refresh_token", err == nil)
	if err != nil {
		return tokenError("refresh_token", err)
	}
	c.setToken(tok)
	c.logger.InfoContext(ctx, "Refreshed access token", "expiry", tok.Expiry)
	return nil
}

func (c *Client) wcifURL(competitionID string) *url.URL {
	return c.baseURL.JoinPath("competitions", competitionID, "wcif")
}

func (c *Client) do(ctx context.Context, operation, method string, u *url.URL, body []byte) ([]byte, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrIO, err)
		}
		c.metrics.RecordRateLimitWait(ctx, time.Since(waitStart))
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrIO, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok := c.Token()
	tok.SetAuthHeader(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordTransportError(ctx, operation)
		c.logger.ErrorContext(ctx, "WCA request failed",
			"operation", operation,
			"method", method,
			"url", u.Redacted(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrIO, method, u.Redacted(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	c.metrics.RecordRequest(ctx, operation, resp.StatusCode, duration)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %w", ErrIO, operation, err)
	}

	c.logger.DebugContext(ctx, "WCA request",
		"operation", operation,
		"method", method,
		"url", u.Redacted(),
		"status", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        u.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}
	return data, nil
}

func tokenError(grant string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return fmt.Errorf("%w: %s grant rejected with status %d: %w", ErrAuth, grant, re.Response.StatusCode, err)
	}
	return fmt.Errorf("%w: %s grant: %w", ErrAuth, grant, err)
}
