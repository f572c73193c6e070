package agent

import (
	"encoding/base64"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/tacit"
)

// Candidate is one listed branch as seen by a remote host. The underlying
// branch index stays inside the agent.
type Candidate struct {
	Position int
	Value    []byte
	Display  []tacit.Value
}

// Listing is the result of a remote ListOptions.
type Listing struct {
	Level      int
	Candidates []Candidate
}

func topologyToStruct(t greatwall.Topology) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"depth":          structpb.NewNumberValue(float64(t.Depth)),
		"arity":          structpb.NewNumberValue(float64(t.Arity)),
		"tlp_iterations": structpb.NewNumberValue(float64(t.TLPIterations)),
	}}
}

func topologyFromStruct(s *structpb.Struct) (greatwall.Topology, error) {
	var t greatwall.Topology
	var err error
	if t.Depth, err = intField(s, "depth"); err != nil {
		return t, err
	}
	if t.Arity, err = intField(s, "arity"); err != nil {
		return t, err
	}
	if t.TLPIterations, err = intField(s, "tlp_iterations"); err != nil {
		return t, err
	}
	return t, nil
}

func statusToStruct(st greatwall.Status) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"session_id":   structpb.NewStringValue(st.SessionID),
		"phase":        structpb.NewStringValue(st.Phase.String()),
		"topology":     structpb.NewStructValue(topologyToStruct(st.Topology)),
		"configured":   structpb.NewBoolValue(st.Configured),
		"seeded":       structpb.NewBoolValue(st.Seeded),
		"initialized":  structpb.NewBoolValue(st.Initialized),
		"finished":     structpb.NewBoolValue(st.Finished),
		"canceled":     structpb.NewBoolValue(st.Canceled),
		"level":        structpb.NewNumberValue(float64(st.Level)),
		"cached_nodes": structpb.NewNumberValue(float64(st.CachedNodes)),
	}}
}

// statusFromStruct decodes a remote status. Path is never transmitted.
func statusFromStruct(s *structpb.Struct) (greatwall.Status, error) {
	f := s.GetFields()
	st := greatwall.Status{
		SessionID:   f["session_id"].GetStringValue(),
		Configured:  f["configured"].GetBoolValue(),
		Seeded:      f["seeded"].GetBoolValue(),
		Initialized: f["initialized"].GetBoolValue(),
		Finished:    f["finished"].GetBoolValue(),
		Canceled:    f["canceled"].GetBoolValue(),
	}
	var err error
	if st.Phase, err = parsePhase(f["phase"].GetStringValue()); err != nil {
		return st, err
	}
	if st.Topology, err = topologyFromStruct(f["topology"].GetStructValue()); err != nil {
		return st, err
	}
	if st.Level, err = intField(s, "level"); err != nil {
		return st, err
	}
	if st.CachedNodes, err = intField(s, "cached_nodes"); err != nil {
		return st, err
	}
	return st, nil
}

func parsePhase(s string) (greatwall.Phase, error) {
	for _, p := range []greatwall.Phase{greatwall.PhaseRoot, greatwall.PhaseAtNode, greatwall.PhaseFinished, greatwall.PhaseCanceled} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("agent: unknown phase %q", s)
}

func listingToStruct(o greatwall.Options) *structpb.Struct {
	cands := make([]*structpb.Value, 0, len(o.Candidates))
	for _, c := range o.Candidates {
		display := make([]*structpb.Value, 0, len(c.Display))
		for _, v := range c.Display {
			display = append(display, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
				"tag":   structpb.NewStringValue(v.Tag),
				"bytes": structpb.NewStringValue(base64.StdEncoding.EncodeToString(v.Bytes)),
			}}))
		}
		cands = append(cands, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"position": structpb.NewNumberValue(float64(c.Position)),
			"value":    structpb.NewStringValue(base64.StdEncoding.EncodeToString(c.Value)),
			"display":  structpb.NewListValue(&structpb.ListValue{Values: display}),
		}}))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"level":      structpb.NewNumberValue(float64(o.Level)),
		"candidates": structpb.NewListValue(&structpb.ListValue{Values: cands}),
	}}
}

func listingFromStruct(s *structpb.Struct) (Listing, error) {
	var l Listing
	var err error
	if l.Level, err = intField(s, "level"); err != nil {
		return l, err
	}
	for _, cv := range s.GetFields()["candidates"].GetListValue().GetValues() {
		cs := cv.GetStructValue()
		var c Candidate
		if c.Position, err = intField(cs, "position"); err != nil {
			return l, err
		}
		if c.Value, err = bytesField(cs, "value"); err != nil {
			return l, err
		}
		for _, dv := range cs.GetFields()["display"].GetListValue().GetValues() {
			ds := dv.GetStructValue()
			b, err := bytesField(ds, "bytes")
			if err != nil {
				return l, err
			}
			c.Display = append(c.Display, tacit.Value{Tag: ds.GetFields()["tag"].GetStringValue(), Bytes: b})
		}
		l.Candidates = append(l.Candidates, c)
	}
	return l, nil
}

func eventToStruct(ev greatwall.Event) *structpb.Struct {
	f := map[string]*structpb.Value{
		"type":  structpb.NewStringValue(ev.Type.String()),
		"stage": structpb.NewStringValue(ev.Stage),
		"done":  structpb.NewNumberValue(float64(ev.Done)),
		"total": structpb.NewNumberValue(float64(ev.Total)),
	}
	if ev.Err != nil {
		f["rule"] = structpb.NewStringValue(greatwall.RuleIDOf(ev.Err))
		f["message"] = structpb.NewStringValue(ev.Err.Error())
	}
	return &structpb.Struct{Fields: f}
}

func eventFromStruct(s *structpb.Struct) (greatwall.Event, error) {
	f := s.GetFields()
	var ev greatwall.Event
	switch t := f["type"].GetStringValue(); t {
	case greatwall.EventProgress.String():
		ev.Type = greatwall.EventProgress
	case greatwall.EventCompleted.String():
		ev.Type = greatwall.EventCompleted
	case greatwall.EventCanceled.String():
		ev.Type = greatwall.EventCanceled
	case greatwall.EventFailed.String():
		ev.Type = greatwall.EventFailed
	default:
		return ev, fmt.Errorf("agent: unknown event type %q", t)
	}
	ev.Stage = f["stage"].GetStringValue()
	ev.Done = int(f["done"].GetNumberValue())
	ev.Total = int(f["total"].GetNumberValue())
	if rule, ok := f["rule"]; ok {
		ev.Err = ruleError(rule.GetStringValue(), f["message"].GetStringValue())
		ev.Kind = greatwall.KindOf(ev.Err)
	}
	return ev, nil
}

func intField(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("agent: missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("agent: field %q is not a number", name)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("agent: field %q is not an integer", name)
	}
	return int(n.NumberValue), nil
}

func bytesField(s *structpb.Struct, name string) ([]byte, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, fmt.Errorf("agent: missing field %q", name)
	}
	b, err := base64.StdEncoding.DecodeString(v.GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("agent: field %q: %w", name, err)
	}
	return b, nil
}
