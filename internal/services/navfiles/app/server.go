// Package server wires the navfiles runtime: dependency gate, storage,
// and the gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	navfilesv1 "github.com/louisbranch/navfiles/api/navfiles/v1"
	platformcmd "github.com/louisbranch/navfiles/internal/platform/cmd"
	apperrors "github.com/louisbranch/navfiles/internal/platform/errors"
	platformgrpc "github.com/louisbranch/navfiles/internal/platform/grpc"
	"github.com/louisbranch/navfiles/internal/platform/logging"
	"github.com/louisbranch/navfiles/internal/platform/telemetry/metrics"
	"github.com/louisbranch/navfiles/internal/platform/timeouts"
	navfilesservice "github.com/louisbranch/navfiles/internal/services/navfiles/api/grpc/navfiles"
	"github.com/louisbranch/navfiles/internal/services/navfiles/directory"
	"github.com/louisbranch/navfiles/internal/services/navfiles/gate"
	"github.com/louisbranch/navfiles/internal/services/navfiles/storage"
	"github.com/louisbranch/navfiles/internal/services/navfiles/storage/filesystem"
	navsqlite "github.com/louisbranch/navfiles/internal/services/navfiles/storage/sqlite"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ErrNotReady is returned by Register before dependencies are acquired.
var ErrNotReady = errors.New("dependencies are not ready")

// Config holds runtime settings for the map service.
type Config struct {
	// Addr is the listen address. Empty means ":<Port>".
	Addr string
	Port int
	// PlatformURL is the gRPC target of the platform service directory.
	PlatformURL string
	MapsDir     string
	// DBPath locates the revision ledger. Empty disables the ledger.
	DBPath           string
	RequiredServices []string
	GateDeadline     time.Duration
	GatePollInterval time.Duration
	// MetricsAddr enables the Prometheus endpoint when set.
	MetricsAddr string
	Log         *logrus.Entry
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = fmt.Sprintf(":%d", c.Port)
	}
	if c.GateDeadline <= 0 {
		c.GateDeadline = timeouts.GateDeadline
	}
	if c.GatePollInterval <= 0 {
		c.GatePollInterval = timeouts.GatePollInterval
	}
	required := make([]string, 0, len(c.RequiredServices))
	for _, name := range c.RequiredServices {
		if name = strings.TrimSpace(name); name != "" {
			required = append(required, name)
		}
	}
	if len(required) == 0 {
		required = []string{directory.MemoryService}
	}
	c.RequiredServices = required
	if c.Log == nil {
		c.Log = logging.New(platformcmd.ServiceNavFiles, logging.Options{})
	}
	return c
}

// Server hosts the map gRPC API once its platform dependencies are up.
type Server struct {
	cfg     Config
	log     *logrus.Entry
	metrics *metrics.Metrics

	platform  *grpc.ClientConn
	directory *directory.Directory
	gate      *gate.Gate

	maps       *filesystem.Store
	revisions  *navsqlite.Store
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server

	started     atomic.Bool
	serveErr    chan error
	stopOnce    sync.Once
	stopping    chan struct{}
	cleanupOnce sync.Once
}

// New builds an uninitialized server. Nothing is dialed or bound yet.
func New(cfg Config) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		cfg:      cfg,
		log:      cfg.Log,
		metrics:  metrics.New(),
		serveErr: make(chan error, 1),
		stopping: make(chan struct{}),
	}
}

// Metrics exposes the server collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Addr returns the bound listener address, or "" before Register.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Initialize dials the platform and blocks until every required service is
// reachable. A dependency timeout leaves the server unregistered.
func (s *Server) Initialize(ctx context.Context) error {
	if s.gate != nil {
		return gate.ErrAlreadyAcquired
	}
	conn, err := platformgrpc.Dial(s.cfg.PlatformURL)
	if err != nil {
		return fmt.Errorf("dial platform gRPC %s: %w", s.cfg.PlatformURL, err)
	}
	s.platform = conn
	s.directory = directory.New(conn, timeouts.GRPCRequest)
	s.gate = gate.New(gate.Config{
		Deadline:     s.cfg.GateDeadline,
		PollInterval: s.cfg.GatePollInterval,
	}, s.log).WithObserver(gateObserver{metrics: s.metrics})

	if err := s.gate.Acquire(ctx, s.directory.Probe(s.cfg.RequiredServices...)); err != nil {
		if errors.Is(err, gate.ErrDependencyTimeout) {
			return apperrors.Wrap(apperrors.CodeDependencyTimeout, "acquire dependencies", err).
				WithMetadata("services", strings.Join(s.cfg.RequiredServices, ","))
		}
		return fmt.Errorf("acquire dependencies: %w", err)
	}
	for _, name := range s.cfg.RequiredServices {
		if _, ok := s.directory.Handle(name); ok {
			s.log.WithField("dependency", name).Debug("dependency handle acquired")
		}
	}
	return nil
}

// Register opens storage, binds the listener and registers the API and
// health services. It requires a successful Initialize.
func (s *Server) Register() error {
	if s.gate == nil || s.gate.Signal().State() != gate.StateReady {
		return ErrNotReady
	}
	if s.grpcServer != nil {
		return errors.New("server already registered")
	}

	maps, err := filesystem.Open(s.cfg.MapsDir)
	if err != nil {
		return fmt.Errorf("open map store: %w", err)
	}
	s.maps = maps

	var revisions storage.RevisionStore
	if strings.TrimSpace(s.cfg.DBPath) != "" {
		store, err := openRevisionStore(s.cfg.DBPath)
		if err != nil {
			return err
		}
		s.revisions = store
		revisions = store
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener

	s.grpcServer = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.metrics.UnaryServerInterceptor()),
	)
	apiService := navfilesservice.NewService(maps, revisions, s.log)
	s.health = health.NewServer()
	navfilesv1.RegisterNavigationFilesServiceServer(s.grpcServer, apiService)
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(platformcmd.ServiceNavFiles, grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(navfilesv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return nil
}

// Start begins serving in the background.
func (s *Server) Start() {
	if s.grpcServer == nil || s.listener == nil {
		s.log.Warn("start requested before registration")
		return
	}
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.log.Infof("Serving %s at %s", platformcmd.ServiceNavFiles, s.listener.Addr())
	go func() {
		s.serveErr <- s.grpcServer.Serve(s.listener)
	}()
}

// Stop requests shutdown and drains in-flight calls. Later calls do nothing.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.log.Infof("Stopping %s", platformcmd.ServiceNavFiles)
		close(s.stopping)
		if s.health != nil {
			s.health.Shutdown()
		}
		if s.grpcServer != nil {
			s.grpcServer.GracefulStop()
		}
	})
}

// Wait blocks until ctx is cancelled, Stop is called, or serving fails.
func (s *Server) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		s.Stop()
	case <-s.stopping:
	case err := <-s.serveErr:
		s.Stop()
		return serveResult(err)
	}
	if !s.started.Load() {
		return nil
	}
	return serveResult(<-s.serveErr)
}

// Cleanup releases storage and the platform connection.
func (s *Server) Cleanup() {
	s.cleanupOnce.Do(func() {
		s.log.Infof("Cleaning up %s", platformcmd.ServiceNavFiles)
		if s.grpcServer != nil {
			s.grpcServer.Stop()
		}
		if s.listener != nil {
			_ = s.listener.Close()
		}
		if s.revisions != nil {
			if err := s.revisions.Close(); err != nil {
				s.log.WithError(err).Warn("close revision store")
			}
		}
		if s.platform != nil {
			if err := s.platform.Close(); err != nil {
				s.log.WithError(err).Warn("close platform connection")
			}
		}
	})
}

// Run initializes, registers and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s := New(cfg)
	defer s.Cleanup()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if addr := strings.TrimSpace(s.cfg.MetricsAddr); addr != "" {
		go func() {
			if err := s.metrics.Serve(runCtx, addr); err != nil {
				s.log.WithError(err).Error("metrics server")
			}
		}()
	}

	if err := s.Initialize(runCtx); err != nil {
		return err
	}
	if err := s.Register(); err != nil {
		return err
	}
	s.Start()
	return s.Wait(runCtx)
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}

func openRevisionStore(path string) (*navsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := navsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open revision store: %w", err)
	}
	return store, nil
}

type gateObserver struct {
	metrics *metrics.Metrics
}

func (o gateObserver) ProbeAttempted(err error) {
	o.metrics.ObserveProbe(err)
}

func (o gateObserver) Resolved(state gate.State) {
	o.metrics.ObserveGateResolution(state.String())
}
