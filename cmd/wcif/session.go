package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"

	wcaservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/application"
	wcaclient "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/client"
	wcametrics "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/metrics"
	wcifservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/application"
	wcifcodec "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/infrastructure/codec"
	"github.com/Black-And-White-Club/wcif-bot/config"
)

var errNoAccessToken = errors.New("no access token: set WCA_ACCESS_TOKEN or run the token command")

// session carries what every command needs once the configuration is loaded.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  wcametrics.Metrics
	server   *http.Server
}

func (s *session) init(configFile string, logOut io.Writer) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.cfg = cfg
	s.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: cfg.Observability.SlogLevel(),
	}))

	s.registry = prometheus.NewRegistry()
	m, err := wcametrics.NewPrometheus(s.registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	s.metrics = m

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		if err := s.serveMetrics(addr); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.server = &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", "error", err)
		}
	}()
	s.logger.Info("serving metrics", "address", ln.Addr().String())
	return nil
}

func (s *session) close(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// builder is configured from the WCA section; credentials are not checked
// here because API calls only need a token.
func (s *session) builder() *wcaclient.Builder {
	w := s.cfg.WCA
	opts := append(w.ClientOptions(),
		wcaclient.WithHTTPClient(&http.Client{Timeout: w.Timeout}),
		wcaclient.WithMetrics(s.metrics),
		wcaclient.WithLogger(s.logger),
	)
	creds := wcaclient.Credentials{
		ClientID:     w.ClientID,
		ClientSecret: w.ClientSecret,
		RedirectURI:  w.RedirectURI,
	}
	return wcaclient.NewBuilder(creds, opts...).WithScopes(w.ParsedScopes()...)
}

func (s *session) oauthBuilder() (*wcaclient.Builder, error) {
	if _, err := s.cfg.WCA.Credentials(); err != nil {
		return nil, err
	}
	return s.builder(), nil
}

func (s *session) apiClient() (*wcaclient.Client, error) {
	w := s.cfg.WCA
	if w.AccessToken == "" {
		return nil, errNoAccessToken
	}
	b := s.builder().WithManageCompetitions()
	if w.RefreshToken != "" {
		return b.Restore(w.AccessToken, w.RefreshToken)
	}
	return b.Implicit(w.AccessToken)
}

func (s *session) service() (*wcaservice.SyncService, error) {
	client, err := s.apiClient()
	if err != nil {
		return nil, err
	}
	return wcaservice.NewSyncService(client, s.logger, s.metrics, otel.Tracer("wcif")), nil
}

// container reads the document from --file, or from the WCA when
// --competition is given instead.
func (s *session) container(c *cli.Context) (*wcifservice.Container, error) {
	if path := c.String(fileFlag); path != "" {
		return wcifcodec.ParseFile(path, wcifservice.WithLogger(s.logger))
	}
	id := c.String(competitionFlag)
	if id == "" {
		return nil, fmt.Errorf("one of --%s or --%s is required", fileFlag, competitionFlag)
	}
	svc, err := s.service()
	if err != nil {
		return nil, err
	}
	return svc.Load(c.Context, id)
}
