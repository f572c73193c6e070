package tacit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects how branch values are presented.
type Kind string

const (
	KindFormosa Kind = "formosa"
	KindFractal Kind = "fractal"
	KindShape   Kind = "shape"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindFormosa, KindFractal, KindShape}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("tacit: unknown kind %q", s)
}

// Artifact is the presentable form of one branch. Exactly one of Text,
// Fractal or Shape is set, according to Kind.
type Artifact struct {
	Kind    Kind           `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Fractal *FractalParams `json:"fractal,omitempty"`
	Shape   *ShapeParams   `json:"shape,omitempty"`
}

// Encode returns the artifact's JSON form, the bytes stored by a Gallery.
func (a Artifact) Encode() ([]byte, error) {
	return json.Marshal(a)
}

// DecodeArtifact parses the output of Encode.
func DecodeArtifact(b []byte) (Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return Artifact{}, fmt.Errorf("tacit: decode artifact: %w", err)
	}
	return a, nil
}

// Summary is a one-line description suitable for a text UI.
func (a Artifact) Summary() string {
	switch a.Kind {
	case KindFormosa:
		return a.Text
	case KindFractal:
		if a.Fractal == nil {
			return ""
		}
		return fmt.Sprintf("%s c=%.6f%+.6fi", a.Fractal.Function, a.Fractal.Real, a.Fractal.Imag)
	case KindShape:
		if a.Shape == nil {
			return ""
		}
		return fmt.Sprintf("%d-sided polygon", a.Shape.Sides)
	}
	return ""
}

// Renderer turns derived values into an Artifact.
type Renderer interface {
	Kind() Kind
	// Tags lists the domain tags the renderer needs per branch. "" requests
	// the untagged value.
	Tags() []string
	// Render receives one Value per entry of Tags, in the same order.
	Render(values []Value) (Artifact, error)
}

// Options configures NewRenderer.
type Options struct {
	// Encoder is used by KindFormosa. Defaults to HexEncoder.
	Encoder MnemonicEncoder
	// Theme names the Formosa word list, passed through to Encoder.
	Theme string
	// Function is the fractal family for KindFractal.
	Function FractalFunction
	// View overrides the fractal viewport.
	View *View
	// ShapeSize overrides the polygon canvas size.
	ShapeSize int
}

// NewRenderer returns the renderer for kind.
func NewRenderer(kind Kind, opts Options) (Renderer, error) {
	switch kind {
	case KindFormosa:
		enc := opts.Encoder
		if enc == nil {
			enc = HexEncoder{}
		}
		return &FormosaRenderer{Encoder: enc, Theme: opts.Theme}, nil
	case KindFractal:
		fn := opts.Function
		if fn == "" {
			fn = Mandelbrot
		}
		if err := fn.Validate(); err != nil {
			return nil, err
		}
		view := DefaultView
		if opts.View != nil {
			view = *opts.View
		}
		return &FractalRenderer{Function: fn, View: view}, nil
	case KindShape:
		size := opts.ShapeSize
		if size <= 0 {
			size = DefaultShapeSize
		}
		return &ShapeRenderer{Size: size}, nil
	}
	return nil, fmt.Errorf("tacit: unknown kind %q", kind)
}

func expect(r Renderer, values []Value) error {
	tags := r.Tags()
	if len(values) != len(tags) {
		return fmt.Errorf("tacit: %s renderer needs %d values, got %d", r.Kind(), len(tags), len(values))
	}
	for i, v := range values {
		if v.Tag != tags[i] {
			return fmt.Errorf("tacit: %s renderer value %d has tag %q, want %q", r.Kind(), i, v.Tag, tags[i])
		}
		if len(v.Bytes) == 0 {
			return fmt.Errorf("tacit: %s renderer value %d is empty", r.Kind(), i)
		}
	}
	return nil
}
