package journal

import "github.com/pkg/errors"

// Kind classifies a journal-layer error so callers can branch on the fatal
// error taxonomy of spec §7 with errors.As, instead of matching strings.
type Kind int

const (
	// KindJournal covers any violation of the page/frame on-disk contract,
	// a mapping failure, or a descriptor lookup miss for a required stream.
	// Fatal at the component that discovers it.
	KindJournal Kind = iota
	// KindTimeout is a writer mutex acquisition timeout (30s). Fatal.
	KindTimeout
	// KindProtocol is a frame whose length exceeds the page, or a sentinel
	// header with nonzero length. Fatal.
	KindProtocol
	// KindConfig is a malformed or incomplete bootstrap configuration.
	// Fatal at startup.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindJournal:
		return "JournalError"
	case KindTimeout:
		return "TimeoutError"
	case KindProtocol:
		return "ProtocolViolation"
	case KindConfig:
		return "ConfigError"
	default:
		return "Error"
	}
}

// Error is the journal package's fatal error type. It always wraps a cause
// (possibly nil) and carries enough context — a path or a stream identity —
// for the log line a supervisor reads before restarting the process.
type Error struct {
	Kind  Kind
	Msg   string
	Path  string
	cause error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return e.Kind.String() + ": " + e.Msg + " (" + e.Path + ")"
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Cause() error  { return e.cause }
func (e *Error) Unwrap() error { return e.cause }

func newJournalErr(path, msg string, cause error) error {
	return &Error{Kind: KindJournal, Msg: msg, Path: path, cause: errors.WithStack(cause)}
}

func newProtocolErr(msg string) error {
	return &Error{Kind: KindProtocol, Msg: msg}
}

func newTimeoutErr(msg string) error {
	return &Error{Kind: KindTimeout, Msg: msg}
}

// NewConfigError wraps a malformed or incomplete bootstrap configuration
// (spec §7). Exported because config loading lives outside this package,
// in package bootstrap, but shares the same fatal-error taxonomy.
func NewConfigError(msg string, cause error) error {
	return &Error{Kind: KindConfig, Msg: msg, cause: errors.WithStack(cause)}
}
