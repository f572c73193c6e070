package tacit

import (
	"fmt"
	"math/big"
	"strconv"
)

// FractalFunction names an escape-time fractal family.
type FractalFunction string

const (
	Mandelbrot  FractalFunction = "mandelbrot"
	BurningShip FractalFunction = "burningship"
)

func (f FractalFunction) Validate() error {
	switch f {
	case Mandelbrot, BurningShip:
		return nil
	}
	return fmt.Errorf("tacit: unsupported fractal function %q", string(f))
}

// View is the viewport a rasterizer should draw.
type View struct {
	XMin     float64 `json:"x_min" yaml:"x_min"`
	XMax     float64 `json:"x_max" yaml:"x_max"`
	YMin     float64 `json:"y_min" yaml:"y_min"`
	YMax     float64 `json:"y_max" yaml:"y_max"`
	Width    int     `json:"width" yaml:"width"`
	Height   int     `json:"height" yaml:"height"`
	MaxIters int     `json:"max_iters" yaml:"max_iters"`
}

var DefaultView = View{XMin: -2.0, XMax: 0.5, YMin: -1.25, YMax: 1.25, Width: 512, Height: 512, MaxIters: 100}

// FractalParams is everything an external rasterizer needs. Pixels are not
// computed here.
type FractalParams struct {
	Function FractalFunction `json:"function"`
	Real     float64         `json:"real"`
	Imag     float64         `json:"imag"`
	View     View            `json:"view"`
}

// FractalRenderer derives a fractal's real and imaginary parameters from two
// tagged values of the same branch.
type FractalRenderer struct {
	Function FractalFunction
	View     View
}

func (r *FractalRenderer) Kind() Kind     { return KindFractal }
func (r *FractalRenderer) Tags() []string { return []string{TagReal, TagImag} }

func (r *FractalRenderer) Render(values []Value) (Artifact, error) {
	if err := expect(r, values); err != nil {
		return Artifact{}, err
	}
	re, err := RealParam(values[0].Bytes)
	if err != nil {
		return Artifact{}, err
	}
	im, err := ImagParam(values[1].Bytes)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Kind:    KindFractal,
		Fractal: &FractalParams{Function: r.Function, Real: re, Imag: im, View: r.View},
	}, nil
}

// RealParam maps v to 2.<reversed decimal digits of v>. Reversing puts the
// uniformly distributed low-order digits first.
func RealParam(v []byte) (float64, error) {
	return reversedFraction("2.", v)
}

// ImagParam maps v to 0.<reversed decimal digits of v>.
func ImagParam(v []byte) (float64, error) {
	return reversedFraction("0.", v)
}

func reversedFraction(prefix string, v []byte) (float64, error) {
	digits := []byte(new(big.Int).SetBytes(v).String())
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	f, err := strconv.ParseFloat(prefix+string(digits), 64)
	if err != nil {
		return 0, fmt.Errorf("tacit: fractal parameter: %w", err)
	}
	return f, nil
}
