package agent

import "github.com/pkg/errors"

var (
	// ErrProtocolViolation means the model broke the collaborator contract,
	// for example by selecting a skill that is not in the catalog.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrCollaborator wraps failures of the model call itself, including
	// replies that cannot be decoded.
	ErrCollaborator = errors.New("collaborator error")
	// ErrSessionClosed is returned for turns submitted after Close.
	ErrSessionClosed = errors.New("session closed")
)

// collaboratorError tags err as a collaborator failure while keeping the
// original cause reachable through errors.Is/As.
type collaboratorError struct {
	op  string
	err error
}

func (e *collaboratorError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *collaboratorError) Unwrap() []error {
	return []error{ErrCollaborator, e.err}
}

func wrapCollaborator(err error, op string) error {
	if err == nil {
		return nil
	}
	return &collaboratorError{op: op, err: err}
}
