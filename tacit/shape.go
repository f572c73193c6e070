package tacit

import (
	"math"
	"strconv"
)

// DefaultShapeSize is the side of the square polygon canvas, in pixels.
const DefaultShapeSize = 101

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShapeParams describes a regular polygon inscribed in a Size x Size canvas,
// first vertex at the top.
type ShapeParams struct {
	Sides    int     `json:"sides"`
	Size     int     `json:"size"`
	Vertices []Point `json:"vertices"`
}

// ShapeRenderer presents each branch as a regular polygon.
type ShapeRenderer struct {
	Size int
}

func (r *ShapeRenderer) Kind() Kind     { return KindShape }
func (r *ShapeRenderer) Tags() []string { return []string{""} }

func (r *ShapeRenderer) Render(values []Value) (Artifact, error) {
	if err := expect(r, values); err != nil {
		return Artifact{}, err
	}
	sides := Sides(values[0].Bytes)
	return Artifact{
		Kind:  KindShape,
		Shape: &ShapeParams{Sides: sides, Size: r.Size, Vertices: Polygon(sides, r.Size)},
	}, nil
}

// Sides is the leading decimal digit of v[0], plus two. The result is in
// [2, 11]; a zero byte gives a degenerate two-vertex shape.
func Sides(v []byte) int {
	if len(v) == 0 {
		return 2
	}
	s := strconv.Itoa(int(v[0]))
	return int(s[0]-'0') + 2
}

// Polygon returns the vertices of a regular polygon centered in a size x size
// canvas.
func Polygon(sides, size int) []Point {
	cx, cy := size/2, size/2
	angle := 2 * math.Pi / float64(sides)
	out := make([]Point, sides)
	for i := range out {
		a := angle * float64(i)
		out[i] = Point{
			X: int(float64(cx)*math.Sin(a)) + cx,
			Y: -int(float64(cy)*math.Cos(a)) + cy,
		}
	}
	return out
}
