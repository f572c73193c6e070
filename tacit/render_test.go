package tacit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"Fractal", " shape ", "formosa"} {
		if _, err := ParseKind(s); err != nil {
			t.Fatalf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("identicon"); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestFractalParams(t *testing.T) {
	// 0x00003039 = 12345 -> digits reversed "54321".
	v := []byte{0x00, 0x00, 0x30, 0x39}
	re, err := RealParam(v)
	if err != nil {
		t.Fatalf("RealParam: %v", err)
	}
	if math.Abs(re-2.54321) > 1e-12 {
		t.Fatalf("RealParam = %v, want 2.54321", re)
	}
	im, err := ImagParam(v)
	if err != nil {
		t.Fatalf("ImagParam: %v", err)
	}
	if math.Abs(im-0.54321) > 1e-12 {
		t.Fatalf("ImagParam = %v, want 0.54321", im)
	}
	zero, _ := ImagParam([]byte{0, 0, 0, 0})
	if zero != 0 {
		t.Fatalf("ImagParam(0) = %v", zero)
	}
}

func TestFractalRenderer(t *testing.T) {
	r, err := NewRenderer(KindFractal, Options{Function: BurningShip})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	a, err := r.Render([]Value{
		{Tag: TagReal, Bytes: []byte{0, 0, 0, 12}},
		{Tag: TagImag, Bytes: []byte{0, 0, 0, 34}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := &FractalParams{Function: BurningShip, Real: 2.21, Imag: 0.43, View: DefaultView}
	if diff := cmp.Diff(want, a.Fractal); diff != "" {
		t.Fatalf("fractal params mismatch (-want +got):\n%s", diff)
	}
	if _, err := r.Render([]Value{{Tag: TagImag, Bytes: []byte{1}}, {Tag: TagReal, Bytes: []byte{1}}}); err == nil {
		t.Fatalf("expected error for swapped tags")
	}
	if _, err := NewRenderer(KindFractal, Options{Function: "julia"}); err == nil {
		t.Fatalf("expected error for unknown fractal function")
	}
}

func TestSides(t *testing.T) {
	cases := map[byte]int{0: 2, 1: 3, 9: 11, 10: 3, 99: 11, 200: 4, 255: 4}
	for b, want := range cases {
		if got := Sides([]byte{b, 0xff}); got != want {
			t.Errorf("Sides(%d) = %d, want %d", b, got, want)
		}
	}
}

func TestShapeRenderer(t *testing.T) {
	r, err := NewRenderer(KindShape, Options{})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	a, err := r.Render([]Value{{Bytes: []byte{2, 0, 0, 0}}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := &ShapeParams{
		Sides: 4,
		Size:  DefaultShapeSize,
		Vertices: []Point{
			{X: 50, Y: 0},
			{X: 100, Y: 50},
			{X: 50, Y: 100},
			{X: 0, Y: 50},
		},
	}
	if diff := cmp.Diff(want, a.Shape); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}
	if a.Summary() != "4-sided polygon" {
		t.Fatalf("Summary = %q", a.Summary())
	}
}

type upperEncoder struct{}

func (upperEncoder) Encode(theme string, entropy []byte) (string, error) {
	return theme + ":" + string(rune('A'+entropy[0]%26)), nil
}

func TestFormosaRenderer(t *testing.T) {
	r, _ := NewRenderer(KindFormosa, Options{})
	a, err := r.Render([]Value{{Bytes: []byte{0xde, 0xad, 0xbe, 0xef}}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a.Text != "de ad be ef" {
		t.Fatalf("hex fallback = %q", a.Text)
	}

	r, _ = NewRenderer(KindFormosa, Options{Encoder: upperEncoder{}, Theme: "cute_pets"})
	a, err = r.Render([]Value{{Bytes: []byte{1}}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a.Text != "cute_pets:B" {
		t.Fatalf("encoder output = %q", a.Text)
	}
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for missing value")
	}
}

func TestArtifactEncodeDecode(t *testing.T) {
	r, _ := NewRenderer(KindShape, Options{})
	a, _ := r.Render([]Value{{Bytes: []byte{5}}})
	b, err := a.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := DecodeArtifact(b)
	if err != nil {
		t.Fatalf("DecodeArtifact: %v", err)
	}
	if diff := cmp.Diff(a, back); diff != "" {
		t.Fatalf("artifact changed across encoding (-want +got):\n%s", diff)
	}
}
