package greatwall

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindConfig: topology out of range, empty entropy, undecodable
	// passphrase, or an operation that needs configuration that is missing.
	KindConfig Kind = "Config"
	// KindCanceled: the session was canceled. Not a failure.
	KindCanceled Kind = "Canceled"
	// KindTransition: the call is not valid in the current navigation state.
	KindTransition Kind = "Transition"
	// KindHash: the memory-hard hash failed. Reset the session and retry.
	KindHash Kind = "Hash"
	// KindInternal: an invariant of the engine itself was violated.
	KindInternal Kind = "Internal"
)

// Stable rule identifiers.
const (
	RuleDepth         = "GW-CFG-001"
	RuleArity         = "GW-CFG-002"
	RuleTLP           = "GW-CFG-003"
	RuleEmptyEntropy  = "GW-CFG-004"
	RulePassphrase    = "GW-CFG-005"
	RuleNotConfigured = "GW-CFG-006"

	RuleBootstrapCanceled = "GW-CAN-001"
	RuleSessionCanceled   = "GW-CAN-002"

	RuleBadChoice       = "GW-NAV-001"
	RuleFinishEarly     = "GW-NAV-002"
	RuleAtDepth         = "GW-NAV-003"
	RuleAfterFinish     = "GW-NAV-004"
	RuleAfterCancel     = "GW-NAV-005"
	RuleNotInitialized  = "GW-NAV-006"
	RuleNoOptionsListed = "GW-NAV-007"

	RuleHashFailure = "GW-HASH-001"

	RuleCacheMiss = "GW-INT-001"
	RuleShuffler  = "GW-INT-002"
)

// ErrCanceled is wrapped by every error caused by cancellation.
var ErrCanceled = errors.New("greatwall: canceled")

// Error is the engine's structured error type.
//
// RuleID is a stable identifier (e.g. GW-CFG-001, GW-NAV-003) naming the
// violated rule. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil && e.Cause != ErrCanceled {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleIDOf returns the stable RuleID for a structured error, or "" if
// unknown.
func RuleIDOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// KindOf returns the Kind of a structured error, or "" if unknown.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// IsCanceled reports whether err stems from cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || IsKind(err, KindCanceled)
}
