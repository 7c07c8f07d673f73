// Package api provides the HTTP REST API and WebSocket server for Hearth Core.
//
// It exposes the issue registry, device models, the typed service surface,
// repair flows and integration supervision to user interfaces (web admin,
// mobile apps, dashboards).
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hearthway/hearth-core/internal/audit"
	"github.com/hearthway/hearth-core/internal/auth"
	"github.com/hearthway/hearth-core/internal/device"
	"github.com/hearthway/hearth-core/internal/infrastructure/config"
	"github.com/hearthway/hearth-core/internal/infrastructure/logging"
	"github.com/hearthway/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/repair"
	"github.com/hearthway/hearth-core/internal/service"
	"github.com/hearthway/hearth-core/internal/setup"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger

	Issues     *issue.Registry
	Devices    *device.Registry
	Services   *service.Registry
	Repairs    *repair.Manager
	Supervisor *setup.Supervisor
	Users      auth.UserRepository
	Audit      audit.Repository

	// MQTT is optional; when set, /metrics reports broker connectivity.
	MQTT *mqtt.Client

	// DB is optional; when set, /metrics reports connection pool stats.
	DB *sql.DB

	Version string
}

// Server is the HTTP API server for Hearth Core.
//
// It manages the HTTP listener, routes, middleware, and the WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg    config.APIConfig
	wsCfg  config.WebSocketConfig
	secCfg config.SecurityConfig
	logger *logging.Logger

	issues     *issue.Registry
	devices    *device.Registry
	services   *service.Registry
	repairs    *repair.Manager
	supervisor *setup.Supervisor
	users      auth.UserRepository
	audit      audit.Repository
	mqtt       *mqtt.Client
	db         *sql.DB

	version   string
	startTime time.Time

	server  *http.Server
	hub     *Hub
	tickets *ticketStore
	cancel  context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Issues == nil {
		return nil, fmt.Errorf("issue registry is required")
	}
	if deps.Devices == nil {
		return nil, fmt.Errorf("device registry is required")
	}
	if deps.Services == nil {
		return nil, fmt.Errorf("service registry is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		secCfg:     deps.Security,
		logger:     deps.Logger,
		issues:     deps.Issues,
		devices:    deps.Devices,
		services:   deps.Services,
		repairs:    deps.Repairs,
		supervisor: deps.Supervisor,
		users:      deps.Users,
		audit:      deps.Audit,
		mqtt:       deps.MQTT,
		db:         deps.DB,
		version:    deps.Version,
		startTime:  time.Now(),
		tickets:    newTicketStore(),
	}, nil
}

// WSHub returns the WebSocket hub, creating it on first use. The composition
// root uses it to wire issue and device events into the broadcast stream.
func (s *Server) WSHub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub and the ticket cleanup
// loop, and launches the HTTP listener in a background goroutine. The
// server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	go s.hub.Run(srvCtx)
	go s.tickets.cleanLoop(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
