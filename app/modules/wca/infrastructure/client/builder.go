package wcaclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	wcametrics "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/metrics"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://www.worldcubeassociation.org/api/v0/"
	DefaultTokenURL     = "https://www.worldcubeassociation.org/oauth/token"
	DefaultAuthorizeURL = "https://www.worldcubeassociation.org/oauth/authorize"
)

// Credentials identify the OAuth application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type settings struct {
	baseURL      string
	tokenURL     string
	authorizeURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
	metrics      wcametrics.Metrics
	logger       *slog.Logger
}

// Option configures transport and observability for the clients a Builder
// produces.
type Option func(*settings)

func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

func WithTokenURL(u string) Option {
	return func(s *settings) { s.tokenURL = u }
}

func WithAuthorizeURL(u string) Option {
	return func(s *settings) { s.authorizeURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithRateLimit limits API requests to r per second with the given burst.
// A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(s *settings) {
		if r <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

func WithMetrics(m wcametrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Builder collects the scopes to request and produces an authenticated
// Client through one of the OAuth flows. The public scope is always
// requested.
type Builder struct {
	creds  Credentials
	scopes []Scope
	cfg    settings
}

func NewBuilder(creds Credentials, opts ...Option) *Builder {
	cfg := settings{
		baseURL:      DefaultBaseURL,
		tokenURL:     DefaultTokenURL,
		authorizeURL: DefaultAuthorizeURL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = http.DefaultClient
	}
	if cfg.metrics == nil {
		cfg.metrics = wcametrics.NewNoop()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Builder{
		creds:  creds,
		scopes: []Scope{ScopePublic},
		cfg:    cfg,
	}
}

func (b *Builder) WithScopes(scopes ...Scope) *Builder {
	for _, s := range scopes {
		b.scopes = addScope(b.scopes, s)
	}
	return b
}

func (b *Builder) WithManageCompetitions() *Builder { return b.WithScopes(ScopeManageCompetitions) }
func (b *Builder) WithEmail() *Builder              { return b.WithScopes(ScopeEmail) }
func (b *Builder) WithDOB() *Builder                { return b.WithScopes(ScopeDOB) }

// Scopes returns the requested scopes.
func (b *Builder) Scopes() []Scope {
	return slices.Clone(b.scopes)
}

func (b *Builder) oauthConfig() oauth2.Config {
	return oauth2.Config{
		ClientID:     b.creds.ClientID,
		ClientSecret: b.creds.ClientSecret,
		RedirectURL:  b.creds.RedirectURI,
		Scopes:       scopeStrings(b.scopes),
		Endpoint: oauth2.Endpoint{
			AuthURL:   b.cfg.authorizeURL,
			TokenURL:  b.cfg.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthorizeURL is the page to send the user to for the explicit
// (authorization code) flow.
func (b *Builder) AuthorizeURL(state string) string {
	cfg := b.oauthConfig()
	return cfg.AuthCodeURL(state)
}

// ImplicitAuthorizeURL is the page to send the user to for the implicit flow.
// The access token comes back in the redirect fragment.
func (b *Builder) ImplicitAuthorizeURL(state string) string {
	cfg := b.oauthConfig()
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "token"))
}

// Explicit exchanges a one-shot authorization code for a token pair. When the
// token response lists the granted scopes, those replace the requested ones.
func (b *Builder) Explicit(ctx context.Context, code string) (*Client, error) {
	c, err := b.newClient(FlowExplicit, nil)
	if err != nil {
		return nil, err
	}

	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	c.metrics.RecordTokenGrant(ctx, "authorization_code", err == nil)
	if err != nil {
		return nil, tokenError("authorization_code", err)
	}
	c.setToken(tok)
	c.logger.InfoContext(ctx, "Exchanged authorization code",
		"scopes", scopeStrings(c.scopes),
		"expiry", tok.Expiry,
	)
	return c, nil
}

// Implicit wraps an access token obtained through the implicit flow. The
// requested scopes are taken as granted.
func (b *Builder) Implicit(accessToken string) (*Client, error) {
	return b.newClient(FlowImplicit, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

// Restore builds an explicit-flow client from a previously issued token pair.
func (b *Builder) Restore(accessToken, refreshToken string) (*Client, error) {
	return b.newClient(FlowExplicit, &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "Bearer"})
}

func (b *Builder) newClient(flow Flow, tok *oauth2.Token) (*Client, error) {
	base, err := url.Parse(b.cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", b.cfg.baseURL, err)
	}
	c := &Client{
		flow:    flow,
		oauth:   b.oauthConfig(),
		scopes:  slices.Clone(b.scopes),
		baseURL: base,
		http:    b.cfg.httpClient,
		limiter: b.cfg.limiter,
		metrics: b.cfg.metrics,
		logger:  b.cfg.logger,
	}
	if tok != nil {
		c.setToken(tok)
	}
	return c, nil
}
