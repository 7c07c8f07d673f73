package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hearthway/hearth-core/internal/device"
)

// Logger defines the logging interface used by the hub package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds the connection settings for the cloud hub.
type Config struct {
	// URL is the API base, e.g. "https://ha101-1.overkiz.com/enduser-mobile-web/enduserAPI".
	URL string

	// Username and Password are the cloud account credentials.
	Username string
	Password string

	// Timeout bounds each HTTP call. Zero means 30 seconds.
	Timeout time.Duration
}

// Client is the cloud hub API client. It owns the session cookie and
// re-authenticates transparently when the cloud drops the session.
//
// Client implements device.Executor.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger Logger

	mu         sync.Mutex
	loggedIn   bool
	listenerID string
}

var _ device.Executor = (*Client)(nil)

// NewClient creates a hub client. It does not connect; call Login first.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Login authenticates against the cloud and stores the session cookie.
// A 401 here means bad credentials, not an expired session.
func (c *Client) Login(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"userId":       c.cfg.Username,
			"userPassword": c.cfg.Password,
		}).
		Post("/login")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	status := resp.StatusCode()
	if status == 401 || status == 403 {
		return ErrAuthFailed
	}
	if err := classifyStatus(status); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	c.mu.Lock()
	c.loggedIn = true
	c.listenerID = ""
	c.mu.Unlock()

	c.logger.Info("hub session established", "user", c.cfg.Username)
	return nil
}

// FetchSetup downloads the gateway setup: gateways, devices and their
// current states.
func (c *Client) FetchSetup(ctx context.Context) (*Setup, error) {
	var setup Setup
	err := c.withSession(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&setup).
			Get("/setup")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return classifyStatus(resp.StatusCode())
	})
	if err != nil {
		return nil, fmt.Errorf("fetching setup: %w", err)
	}
	return &setup, nil
}

// Execute sends commands to one device. Implements device.Executor.
func (c *Client) Execute(ctx context.Context, deviceURL, label string, commands ...device.Command) error {
	wire := make([]wireCommand, len(commands))
	for i, cmd := range commands {
		wire[i] = wireCommand{Name: cmd.Name, Parameters: cmd.Args}
	}
	body := execRequest{
		Label:   label,
		Actions: []action{{DeviceURL: deviceURL, Commands: wire}},
	}

	var result execResponse
	err := c.withSession(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&result).
			Post("/exec/apply")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return classifyStatus(resp.StatusCode())
	})
	if err != nil {
		return fmt.Errorf("executing %q on %s: %w", label, deviceURL, err)
	}

	c.logger.Debug("commands dispatched",
		"device", deviceURL,
		"label", label,
		"exec_id", result.ExecID)
	return nil
}

// PollEvents fetches the events accumulated since the last poll. It
// registers an event listener on first use and re-registers when the cloud
// forgets it.
func (c *Client) PollEvents(ctx context.Context) ([]Event, error) {
	c.mu.Lock()
	listenerID := c.listenerID
	c.mu.Unlock()

	if listenerID == "" {
		id, err := c.registerListener(ctx)
		if err != nil {
			return nil, err
		}
		listenerID = id
	}

	var events []Event
	err := c.withSession(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&events).
			Post("/events/" + listenerID + "/fetch")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		// The cloud answers 404 when it has expired the listener.
		if resp.StatusCode() == 404 {
			c.mu.Lock()
			c.listenerID = ""
			c.mu.Unlock()
			return nil
		}
		return classifyStatus(resp.StatusCode())
	})
	if err != nil {
		return nil, fmt.Errorf("polling events: %w", err)
	}
	return events, nil
}

// registerListener asks the cloud for a new event listener id.
func (c *Client) registerListener(ctx context.Context) (string, error) {
	var result registerResponse
	err := c.withSession(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&result).
			Post("/events/register")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return classifyStatus(resp.StatusCode())
	})
	if err != nil {
		return "", fmt.Errorf("registering event listener: %w", err)
	}

	c.mu.Lock()
	c.listenerID = result.ID
	c.mu.Unlock()

	c.logger.Debug("event listener registered", "listener_id", result.ID)
	return result.ID, nil
}

// withSession runs fn, re-authenticating once if the session has expired.
// A failed re-login surfaces as ErrAuthFailed.
func (c *Client) withSession(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	loggedIn := c.loggedIn
	c.mu.Unlock()

	if !loggedIn {
		return ErrNotLoggedIn
	}

	err := fn()
	if !errors.Is(err, ErrSessionExpired) {
		return err
	}

	c.logger.Info("hub session expired, re-authenticating")
	if err := c.Login(ctx); err != nil {
		return err
	}
	return fn()
}
