package media

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hearthway/hearth-core/internal/setup"
)

// Integration adapts the streaming client to the setup supervisor. Setup
// probes the account with the configured token, then exposes the command
// table as services under the media domain.
type Integration struct {
	cfg Config

	mu         sync.Mutex
	client     *Client
	registered bool
}

var _ setup.Integration = (*Integration)(nil)

// NewIntegration creates a media integration for the supervisor.
func NewIntegration(cfg Config) *Integration {
	return &Integration{cfg: cfg}
}

// Setup verifies the token against the Web API and registers the media
// services. A rejected token asks for reauthorization; a throttled or
// unreachable service asks for a retry.
func (i *Integration) Setup(ctx context.Context, ic *setup.Context) setup.Result {
	client := NewClient(i.cfg)
	if ic.Logger != nil {
		client.SetLogger(ic.Logger)
	}

	// The device list is the cheapest authenticated endpoint, so it doubles
	// as the token probe.
	if _, err := client.GetDevices(ctx); err != nil {
		switch {
		case IsAuthError(err):
			return setup.AuthRequired("token_rejected", err)
		case IsRetryable(err):
			return setup.RetryLater("service_unreachable", err)
		default:
			return setup.Fatal("probe_failed", err)
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.registered {
		if ic.Services == nil {
			return setup.Fatal("no_service_registry", errors.New("media: service registry is required"))
		}
		if err := RegisterServicesProvider(ic.Services, i.currentClient); err != nil {
			return setup.Fatal("service_registration", fmt.Errorf("registering media services: %w", err))
		}
		i.registered = true
	}

	i.client = client
	return setup.Ready()
}

// Teardown drops the client. Registered services stay in the registry and
// report the service as unavailable until a later Setup installs a new
// client.
func (i *Integration) Teardown() error {
	i.mu.Lock()
	i.client = nil
	i.mu.Unlock()
	return nil
}

// currentClient is the late-bound client handed to registered service
// handlers. Nil between Teardown and the next successful Setup.
func (i *Integration) currentClient() *Client {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.client
}
