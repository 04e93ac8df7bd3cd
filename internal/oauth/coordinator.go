package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/semaphore"

	"dremioauth/pkg/logging"
)

// CoordinatorState represents where a Coordinator is in its single flow.
type CoordinatorState int

const (
	// CoordinatorIdle means Run has not been called.
	CoordinatorIdle CoordinatorState = iota

	// CoordinatorAwaitingCallback means the listener is up and Run is blocked.
	CoordinatorAwaitingCallback

	// CoordinatorSucceeded means Run returned a token.
	CoordinatorSucceeded

	// CoordinatorFailed means Run returned an error.
	CoordinatorFailed
)

// String returns the string representation of the coordinator state.
func (s CoordinatorState) String() string {
	switch s {
	case CoordinatorIdle:
		return "idle"
	case CoordinatorAwaitingCallback:
		return "awaiting_callback"
	case CoordinatorSucceeded:
		return "succeeded"
	case CoordinatorFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Only one listener can own a port; flows sharing a port queue here.
var (
	portLocksMu sync.Mutex
	portLocks   = make(map[int]*semaphore.Weighted)
)

func portLock(port int) *semaphore.Weighted {
	portLocksMu.Lock()
	defer portLocksMu.Unlock()

	lock, ok := portLocks[port]
	if !ok {
		lock = semaphore.NewWeighted(1)
		portLocks[port] = lock
	}
	return lock
}

// Coordinator runs one authorization-code flow: it starts the callback
// listener, sends the user to the provider, and blocks until the redirect has
// been turned into a token or an error. A Coordinator serves exactly one Run.
type Coordinator struct {
	cfg           AuthConfig
	exchanger     TokenExchanger
	openBrowser   func(string) error
	launchBrowser bool
	timeout       time.Duration
	out           io.Writer
	onAwaiting    func()

	mu      sync.RWMutex
	state   CoordinatorState
	authURL string
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithExchanger replaces the default ExchangeClient.
func WithExchanger(exchanger TokenExchanger) CoordinatorOption {
	return func(c *Coordinator) {
		c.exchanger = exchanger
	}
}

// WithBrowserOpener replaces OpenBrowser.
func WithBrowserOpener(open func(string) error) CoordinatorOption {
	return func(c *Coordinator) {
		c.openBrowser = open
	}
}

// WithOpenBrowser controls whether the browser is launched at all.
// The authorization URL is always printed.
func WithOpenBrowser(enabled bool) CoordinatorOption {
	return func(c *Coordinator) {
		c.launchBrowser = enabled
	}
}

// WithTimeout bounds how long Run waits for the redirect. Zero waits until ctx is done.
func WithTimeout(timeout time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.timeout = timeout
	}
}

// WithOutput sets where user instructions are printed. Defaults to os.Stderr.
func WithOutput(w io.Writer) CoordinatorOption {
	return func(c *Coordinator) {
		c.out = w
	}
}

// WithOnAwaiting registers a hook called once the listener is up and the user
// has been sent to the provider, right before Run starts blocking.
func WithOnAwaiting(fn func()) CoordinatorOption {
	return func(c *Coordinator) {
		c.onAwaiting = fn
	}
}

// NewCoordinator creates a Coordinator for cfg.
func NewCoordinator(cfg AuthConfig, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		cfg:           cfg,
		openBrowser:   OpenBrowser,
		launchBrowser: true,
		out:           os.Stderr,
		state:         CoordinatorIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.exchanger == nil {
		c.exchanger = NewExchangeClient()
	}
	if c.out == nil {
		c.out = io.Discard
	}

	return c
}

// Run executes the flow and returns the access token, or the error that ended it.
// The callback listener is released before Run returns on every path.
func (c *Coordinator) Run(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	if c.state != CoordinatorIdle {
		c.mu.Unlock()
		return nil, ErrFlowAlreadyStarted
	}
	c.state = CoordinatorAwaitingCallback
	c.mu.Unlock()

	token, err := c.run(ctx)

	c.mu.Lock()
	if err != nil {
		c.state = CoordinatorFailed
	} else {
		c.state = CoordinatorSucceeded
	}
	c.mu.Unlock()

	return token, err
}

func (c *Coordinator) run(ctx context.Context) (*oauth2.Token, error) {
	if err := c.cfg.Validate(); err != nil {
		logging.Error("OAuthFlow", err, "Cannot start authorization flow")
		return nil, err
	}

	port, err := c.cfg.CallbackPort()
	if err != nil {
		return nil, err
	}

	lock := portLock(port)
	if err := lock.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for callback port %d: %w", port, err)
	}
	defer lock.Release(1)

	session := NewAuthSession()

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := NewCallbackServer(port, c.cfg.CallbackPath(), c.redirectHandler(session))
	if err := server.Start(serverCtx); err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer server.Stop()

	logging.Info("OAuthFlow", "Starting authorization flow (session %s)", session.ID)

	authURL := BuildAuthorizationURL(c.cfg)
	c.mu.Lock()
	c.authURL = authURL
	c.mu.Unlock()

	_, _ = fmt.Fprintf(c.out, "Please visit this URL to log in:\n\n  %s\n\n", authURL)
	if c.launchBrowser {
		if err := c.openBrowser(authURL); err != nil {
			logging.Warn("OAuthFlow", "Could not open browser: %v", err)
			_, _ = fmt.Fprintf(c.out, "Could not open a browser automatically (%v). Open the URL above manually.\n", err)
		}
	}
	_, _ = fmt.Fprintf(c.out, "Waiting for callback on %s ...\n", c.cfg.RedirectURI)

	if c.onAwaiting != nil {
		c.onAwaiting()
	}

	var timeoutCh <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-session.Done():
	case err := <-server.Err():
		session.Fail(fmt.Errorf("callback listener failed: %w", err))
	case <-timeoutCh:
		session.Fail(fmt.Errorf("%w after %s", ErrCallbackTimeout, c.timeout))
	case <-ctx.Done():
		session.Fail(ctx.Err())
	}

	// Abort any exchange still in flight, then free the port before returning.
	cancel()
	server.Stop()

	token, err := session.Result()
	if err != nil {
		logging.Error("OAuthFlow", err, "Authorization flow failed (session %s, state %s)", session.ID, session.State())
		return nil, err
	}

	logging.Info("OAuthFlow", "Authorization flow completed (session %s)", session.ID)
	logging.Debug("OAuthFlow", "Issued access token %s", NewRedactedToken(token.AccessToken))
	return token, nil
}

// redirectHandler binds the listener's callback to this flow's session.
func (c *Coordinator) redirectHandler(session *AuthSession) RedirectFunc {
	return func(ctx context.Context, result *CallbackResult) error {
		if result.IsError() || !result.HasCode() {
			err := &CallbackError{ErrorCode: result.Error, Description: result.ErrorDescription}
			if !session.FailIfPending(err) {
				logging.Warn("OAuthFlow", "Ignoring unusable callback for session %s (state %s)", session.ID, session.State())
			}
			return err
		}

		if !session.BeginExchange(result.Code) {
			logging.Warn("OAuthFlow", "Ignoring additional callback for session %s (state %s)", session.ID, session.State())
			return ErrCallbackAlreadyHandled
		}

		logging.Info("OAuthFlow", "Authorization code received (session %s), exchanging for token", session.ID)

		token, err := c.exchanger.Exchange(ctx, c.cfg, result.Code)
		if err != nil {
			logging.Error("TokenExchange", err, "Token exchange failed (session %s)", session.ID)
			session.Fail(err)
			return err
		}

		if !session.Complete(token) {
			_, flowErr := session.Result()
			return fmt.Errorf("authorization flow already ended: %w", flowErr)
		}
		return nil
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() CoordinatorState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// AuthURL returns the authorization URL once Run has built it.
func (c *Coordinator) AuthURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authURL
}

// IsTimeout reports whether err is a callback timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrCallbackTimeout)
}
