package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hearthway/hearth-core/internal/device"
	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/setup"
)

// IntegrationOptions holds configuration for creating a hub integration.
type IntegrationOptions struct {
	Config   Config
	Registry DeviceRegistry

	// PollInterval between event fetches. Zero means the bridge default.
	PollInterval time.Duration

	// OnAuthError is called when an established session dies and re-login
	// fails. The integration has already raised the auth issue by then.
	// Optional.
	OnAuthError func(error)
}

// Integration adapts the cloud hub bridge to the setup supervisor. Each
// Setup attempt builds a fresh client and bridge, so stale sessions from a
// failed attempt never leak into the next one.
type Integration struct {
	opts IntegrationOptions

	mu     sync.Mutex
	bridge *Bridge
}

var _ setup.Integration = (*Integration)(nil)

// NewIntegration creates a hub integration for the supervisor.
func NewIntegration(opts IntegrationOptions) (*Integration, error) {
	if opts.Registry == nil {
		return nil, errors.New("hub: device registry is required")
	}
	return &Integration{opts: opts}, nil
}

// Setup connects to the cloud, downloads the device setup and starts the
// polling bridge. The outcome maps the hub error taxonomy onto the
// supervisor's: bad credentials ask for reauthorization, transient cloud
// trouble asks for a retry.
func (i *Integration) Setup(ctx context.Context, ic *setup.Context) setup.Result {
	client := NewClient(i.opts.Config)
	if ic.Logger != nil {
		client.SetLogger(ic.Logger)
	}

	factory := func(widget, url, name string) (device.Device, error) {
		return device.FromWidget(widget, url, name, client)
	}

	bridge, err := NewBridge(BridgeOptions{
		Client:       client,
		Registry:     i.opts.Registry,
		Factory:      factory,
		PollInterval: i.opts.PollInterval,
		OnAuthError:  i.authErrorHandler(ic),
		Logger:       ic.Logger,
	})
	if err != nil {
		return setup.Fatal("bridge_init", err)
	}

	if err := bridge.Start(ctx); err != nil {
		switch {
		case IsAuthError(err):
			return setup.AuthRequired("invalid_credentials", err)
		case IsRetryable(err):
			return setup.RetryLater("cloud_unreachable", err)
		default:
			return setup.Fatal("setup_failed", err)
		}
	}

	i.mu.Lock()
	i.bridge = bridge
	i.mu.Unlock()
	return setup.Ready()
}

// Teardown stops the polling bridge. Safe to call after a failed Setup.
func (i *Integration) Teardown() error {
	i.mu.Lock()
	bridge := i.bridge
	i.bridge = nil
	i.mu.Unlock()

	if bridge != nil {
		bridge.Stop()
	}
	return nil
}

// Healthy reports whether the bridge poll loop is keeping up. False when
// Setup has not succeeded yet.
func (i *Integration) Healthy() bool {
	i.mu.Lock()
	bridge := i.bridge
	i.mu.Unlock()

	return bridge != nil && bridge.Healthy()
}

// authErrorHandler raises the reauthorization issue when the session dies
// mid-run. Setup-time auth failures go through the supervisor instead, so
// the issue shape here matches what the supervisor raises.
func (i *Integration) authErrorHandler(ic *setup.Context) func(error) {
	return func(err error) {
		if ic.Issues != nil {
			_, upsertErr := ic.Issues.Upsert(ic.Domain, "auth_required", issue.Options{
				IsFixable:    true,
				IsPersistent: true,
				Severity:     issue.SeverityError,
				Data:         map[string]any{"instance_id": ic.InstanceID, "reason": "session_expired"},
			})
			if upsertErr != nil && ic.Logger != nil {
				ic.Logger.Error("raising auth issue failed", "instance", ic.InstanceID, "error", upsertErr)
			}
		}
		if i.opts.OnAuthError != nil {
			i.opts.OnAuthError(err)
		}
	}
}
