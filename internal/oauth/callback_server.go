package oauth

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"dremioauth/pkg/logging"
)

// DefaultCallbackPort is the port of the default redirect URI.
const DefaultCallbackPort = 8000

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

//go:embed templates/callback_success.html
var callbackSuccessHTML string

var callbackSuccessTmpl = template.Must(template.New("success").Parse(callbackSuccessHTML))

const homePageText = "OAuth callback helper is running. Close this window and check your terminal.\n"

// CallbackResult represents the query parameters of an OAuth redirect.
type CallbackResult struct {
	// Code is the authorization code from the OAuth provider.
	Code string

	// Error is the error code if the authorization failed.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string
}

// IsError returns true if the provider reported an authorization error.
func (r *CallbackResult) IsError() bool {
	return r.Error != ""
}

// HasCode returns true if the redirect carried an authorization code.
func (r *CallbackResult) HasCode() bool {
	return r.Code != ""
}

// RedirectFunc handles a redirect synchronously, before the browser gets a response.
// For results carrying a code it performs the token exchange; a nil return
// renders the success page.
type RedirectFunc func(ctx context.Context, result *CallbackResult) error

// CallbackServer is a temporary local HTTP server for receiving OAuth redirects.
type CallbackServer struct {
	port       int
	path       string
	onRedirect RedirectFunc

	server    *http.Server
	listener  net.Listener
	serveDone chan struct{}
	errorCh   chan error
	stopOnce  sync.Once
}

// NewCallbackServer creates a callback server for the given port and path.
// If port is 0, a random available port will be used.
func NewCallbackServer(port int, path string, onRedirect RedirectFunc) *CallbackServer {
	if path == "" {
		path = DefaultCallbackPath
	}

	return &CallbackServer{
		port:       port,
		path:       path,
		onRedirect: onRedirect,
		serveDone:  make(chan struct{}),
		errorCh:    make(chan error, 1),
	}
}

// Start binds the listener and serves requests on a background goroutine.
// The server stops when ctx is cancelled or Stop is called.
func (s *CallbackServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with the flow, aborting a pending exchange.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		defer close(s.serveDone)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("CallbackServer", err, "Callback server stopped unexpectedly")
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	// Monitor context for cancellation and stop server when cancelled
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.serveDone:
		}
	}()

	logging.Info("CallbackServer", "Listening for OAuth redirect on http://%s%s", listener.Addr(), s.path)
	return nil
}

// Handler returns the HTTP handler serving the informational page and the callback route.
func (s *CallbackServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET "+s.path, s.handleCallback)
	return mux
}

func (s *CallbackServer) handleHome(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, homePageText)
}

// handleCallback handles the provider redirect.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)

	query := r.URL.Query()
	result := &CallbackResult{
		Code:             query.Get("code"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	var err error
	if s.onRedirect != nil {
		err = s.onRedirect(r.Context(), result)
	}

	switch {
	case result.IsError():
		logging.Warn("CallbackServer", "Provider returned authorization error %q", result.Error)
		writePlainText(w, http.StatusBadRequest, "Error: "+(&CallbackError{
			ErrorCode:   result.Error,
			Description: result.ErrorDescription,
		}).Error())
	case !result.HasCode():
		logging.Warn("CallbackServer", "Callback received without an authorization code")
		writePlainText(w, http.StatusBadRequest, "Error: No code received.")
	case errors.Is(err, ErrCallbackAlreadyHandled):
		writePlainText(w, http.StatusBadRequest, "Error: callback already processed.")
	case err != nil:
		writePlainText(w, http.StatusInternalServerError, "Error exchanging token: "+err.Error())
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := callbackSuccessTmpl.Execute(w, nil); err != nil {
			logging.Error("CallbackServer", err, "Failed to render success page")
		}
	}
}

// Stop gracefully shuts down the callback server and releases the port.
// It is safe to call more than once and waits for the serve goroutine to exit.
func (s *CallbackServer) Stop() {
	s.stopOnce.Do(func() {
		if s.server == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			logging.Warn("CallbackServer", "Graceful shutdown failed, forcing close: %v", err)
			_ = s.server.Close()
		}
		if s.listener != nil {
			_ = s.listener.Close()
		}
		<-s.serveDone

		logging.Debug("CallbackServer", "Callback server on port %d stopped", s.port)
	})
}

// Err returns a channel that receives an error if serving fails unexpectedly.
func (s *CallbackServer) Err() <-chan error {
	return s.errorCh
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// CallbackURL returns the local URL of the callback route.
func (s *CallbackServer) CallbackURL() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
}

func writePlainText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, msg)
}
