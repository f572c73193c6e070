package agent

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
)

func codeFor(kind greatwall.Kind) codes.Code {
	switch kind {
	case greatwall.KindConfig:
		return codes.InvalidArgument
	case greatwall.KindTransition:
		return codes.FailedPrecondition
	case greatwall.KindCanceled:
		return codes.Canceled
	case greatwall.KindHash:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// mapErr converts an engine error into a gRPC status. The rule id rides
// along as a StringValue detail.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var gwErr *greatwall.Error
	if errors.As(err, &gwErr) {
		st := status.New(codeFor(gwErr.Kind), err.Error())
		if withRule, derr := st.WithDetails(wrapperspb.String(gwErr.RuleID)); derr == nil {
			st = withRule
		}
		return st.Err()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// mapRPC restores a *greatwall.Error from a status carrying a rule id.
// Other errors are returned unchanged.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		if rule, ok := d.(*wrapperspb.StringValue); ok && rule.GetValue() != "" {
			return ruleError(rule.GetValue(), st.Message())
		}
	}
	return err
}

func ruleError(rule, msg string) error {
	e := &greatwall.Error{Kind: kindOfRule(rule), RuleID: rule, Message: msg}
	if e.Kind == greatwall.KindCanceled || rule == greatwall.RuleAfterCancel {
		e.Cause = greatwall.ErrCanceled
	}
	return e
}

func kindOfRule(rule string) greatwall.Kind {
	switch {
	case strings.HasPrefix(rule, "GW-CFG-"):
		return greatwall.KindConfig
	case strings.HasPrefix(rule, "GW-CAN-"):
		return greatwall.KindCanceled
	case strings.HasPrefix(rule, "GW-NAV-"):
		return greatwall.KindTransition
	case strings.HasPrefix(rule, "GW-HASH-"):
		return greatwall.KindHash
	default:
		return greatwall.KindInternal
	}
}
