package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hearthway/hearth-core/internal/device"
)

// Bridge operation constants.
const (
	// defaultPollInterval is used when the config does not set one.
	defaultPollInterval = 2 * time.Second

	// pollFailureThreshold is how many consecutive poll failures flip the
	// bridge to unhealthy.
	pollFailureThreshold = 3
)

// DeviceRegistry is the part of the device registry the bridge needs.
// Satisfied by *device.Registry; tests use fakes.
type DeviceRegistry interface {
	Add(dev device.Device) error
	UpdateState(url string, states map[string]any) error
}

// ModelFactory builds a device model from a hub widget name.
// Usually a closure over device.FromWidget binding the Executor.
type ModelFactory func(widget, url, name string) (device.Device, error)

// Bridge connects the cloud hub to the device registry. It downloads the
// setup once at start, registers a model per supported device, then runs an
// event polling loop that mirrors cloud state changes into the registry.
//
// Thread Safety: all methods are safe for concurrent use.
type Bridge struct {
	client       *Client
	registry     DeviceRegistry
	factory      ModelFactory
	pollInterval time.Duration
	onAuthError  func(error)

	// Poll health tracking
	failures int
	healthy  bool
	healthMu sync.RWMutex

	// Shutdown coordination
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	logger Logger
}

// BridgeOptions holds configuration for creating a bridge.
type BridgeOptions struct {
	Client   *Client
	Registry DeviceRegistry
	Factory  ModelFactory

	// PollInterval between event fetches. Zero means 2 seconds.
	PollInterval time.Duration

	// OnAuthError is called when the session dies and re-login fails.
	// Optional; the bridge stops polling either way.
	OnAuthError func(error)

	Logger Logger
}

// NewBridge creates a bridge. Call Start to connect.
func NewBridge(opts BridgeOptions) (*Bridge, error) {
	if opts.Client == nil {
		return nil, errors.New("hub: client is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("hub: device registry is required")
	}
	if opts.Factory == nil {
		return nil, errors.New("hub: model factory is required")
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Bridge{
		client:       opts.Client,
		registry:     opts.Registry,
		factory:      opts.Factory,
		pollInterval: interval,
		onAuthError:  opts.OnAuthError,
		healthy:      true,
		done:         make(chan struct{}),
		logger:       logger,
	}, nil
}

// Start logs in, downloads the setup, registers device models and launches
// the polling loop. Returns without starting the loop if login or setup
// download fails, so the caller can classify the error and retry.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.client.Login(ctx); err != nil {
		return err
	}

	setup, err := b.client.FetchSetup(ctx)
	if err != nil {
		return err
	}

	registered := 0
	for _, rec := range setup.Devices {
		if !rec.Enabled {
			continue
		}
		dev, err := b.factory(rec.Widget, rec.DeviceURL, rec.Label)
		if err != nil {
			b.logger.Debug("skipping unsupported device",
				"widget", rec.Widget,
				"url", rec.DeviceURL)
			continue
		}
		if err := b.registry.Add(dev); err != nil {
			return fmt.Errorf("registering %s: %w", rec.DeviceURL, err)
		}
		if states := StateMap(rec.States); states != nil {
			dev.ApplyState(states)
		}
		registered++
	}

	b.logger.Info("hub setup loaded",
		"gateways", len(setup.Gateways),
		"devices", len(setup.Devices),
		"registered", registered)

	b.wg.Add(1)
	go b.pollLoop()
	return nil
}

// Stop halts the polling loop and waits for it to exit.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
	b.wg.Wait()
}

// Healthy reports whether recent polls have been succeeding.
func (b *Bridge) Healthy() bool {
	b.healthMu.RLock()
	defer b.healthMu.RUnlock()
	return b.healthy
}

// pollLoop fetches events until Stop is called or authentication dies.
func (b *Bridge) pollLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			if err := b.pollOnce(); err != nil {
				if IsAuthError(err) {
					b.logger.Error("hub authentication lost, stopping poll loop", "error", err)
					if b.onAuthError != nil {
						b.onAuthError(err)
					}
					return
				}
				b.recordFailure(err)
				continue
			}
			b.recordSuccess()
		}
	}
}

// pollOnce fetches one batch of events and applies it.
func (b *Bridge) pollOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), b.pollInterval*2)
	defer cancel()

	events, err := b.client.PollEvents(ctx)
	if err != nil {
		return err
	}

	for _, ev := range events {
		switch ev.Name {
		case eventDeviceStateChanged:
			states := StateMap(ev.DeviceStates)
			if states == nil {
				continue
			}
			if err := b.registry.UpdateState(ev.DeviceURL, states); err != nil {
				b.logger.Debug("state event for unknown device", "url", ev.DeviceURL)
			}
		case eventGatewayDown:
			b.logger.Warn("gateway reported down", "gateway_id", ev.GatewayID)
		case eventGatewayAlive:
			b.logger.Info("gateway back online", "gateway_id", ev.GatewayID)
		}
	}
	return nil
}

func (b *Bridge) recordFailure(err error) {
	b.healthMu.Lock()
	defer b.healthMu.Unlock()

	b.failures++
	if b.failures >= pollFailureThreshold && b.healthy {
		b.healthy = false
		b.logger.Warn("hub polling unhealthy",
			"consecutive_failures", b.failures,
			"error", err)
	}
}

func (b *Bridge) recordSuccess() {
	b.healthMu.Lock()
	defer b.healthMu.Unlock()

	if !b.healthy {
		b.logger.Info("hub polling recovered")
	}
	b.failures = 0
	b.healthy = true
}
