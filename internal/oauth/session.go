package oauth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// SessionState is the lifecycle position of an AuthSession.
type SessionState int

const (
	// SessionPending means no callback has been received yet.
	SessionPending SessionState = iota

	// SessionCodeReceived means a code arrived and is being exchanged.
	SessionCodeReceived

	// SessionExchanged means a token was issued. Terminal.
	SessionExchanged

	// SessionFailed means the attempt ended with an error. Terminal.
	SessionFailed
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionCodeReceived:
		return "code_received"
	case SessionExchanged:
		return "exchanged"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s SessionState) IsTerminal() bool {
	return s == SessionExchanged || s == SessionFailed
}

// AuthSession holds the state of a single authorization attempt.
//
// The result is write-once: the first call to Complete or Fail publishes it and
// closes Done; every later call is a no-op that returns false.
type AuthSession struct {
	// ID correlates log lines belonging to one attempt.
	ID string

	mu    sync.Mutex
	state SessionState
	code  string
	token *oauth2.Token
	err   error
	done  chan struct{}
}

// NewAuthSession creates a session in the Pending state.
func NewAuthSession() *AuthSession {
	return &AuthSession{
		ID:    uuid.NewString(),
		state: SessionPending,
		done:  make(chan struct{}),
	}
}

// BeginExchange records the authorization code and moves the session to
// CodeReceived. It returns false, leaving the session untouched, unless the
// session is still Pending, so at most one callback ever triggers an exchange.
func (s *AuthSession) BeginExchange(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionPending {
		return false
	}
	s.state = SessionCodeReceived
	s.code = code
	return true
}

// Complete publishes a successful result.
func (s *AuthSession) Complete(token *oauth2.Token) bool {
	if token == nil {
		return s.Fail(errors.New("token exchange returned no token"))
	}
	return s.finish(SessionExchanged, token, nil)
}

// Fail publishes a failure.
func (s *AuthSession) Fail(err error) bool {
	if err == nil {
		err = errors.New("authorization failed")
	}
	return s.finish(SessionFailed, nil, err)
}

// FailIfPending publishes a failure only while no code has been admitted.
// A session that is exchanging a code can only fail through that exchange.
func (s *AuthSession) FailIfPending(err error) bool {
	if err == nil {
		err = errors.New("authorization failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionPending {
		return false
	}
	s.state = SessionFailed
	s.err = err
	close(s.done)
	return true
}

func (s *AuthSession) finish(state SessionState, token *oauth2.Token, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsTerminal() {
		return false
	}

	s.state = state
	s.token = token
	s.err = err
	close(s.done)
	return true
}

// Done is closed once a result has been published.
func (s *AuthSession) Done() <-chan struct{} {
	return s.done
}

// State returns the current state.
func (s *AuthSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AuthorizationCode returns the code received from the provider, if any.
func (s *AuthSession) AuthorizationCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// Result returns the published token or error. Before Done is closed it
// returns (nil, nil).
func (s *AuthSession) Result() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.err
}
