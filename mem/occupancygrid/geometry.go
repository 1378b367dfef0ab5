package occupancygrid

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutsideGrid is returned for positions that do not fall in any cell.
var ErrOutsideGrid = errors.New("position outside grid")

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry places a grid in the world. Cell (0, 0) starts at Origin and
// every cell is a square with sides of Resolution.
type Geometry struct {
	Origin     Point   `json:"origin"`
	Resolution float64 `json:"resolution"`
	XCells     uint64  `json:"x_cells"`
	YCells     uint64  `json:"y_cells"`
}

// NewGeometry places a grid of the given configuration in the world.
func NewGeometry(spec Spec, origin Point, resolution float64) (Geometry, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return Geometry{}, fmt.Errorf("resolution must be positive, got %v",
			resolution)
	}

	return Geometry{
		Origin:     origin,
		Resolution: resolution,
		XCells:     spec.GridWidth(),
		YCells:     spec.GridHeight(),
	}, nil
}

// RealSize returns the extent of the grid in world units.
func (g Geometry) RealSize() Point {
	return Point{
		X: float64(g.XCells) * g.Resolution,
		Y: float64(g.YCells) * g.Resolution,
	}
}

// PositionToCell returns the cell that contains a position. The lower edges
// of a cell belong to it and the upper edges to its neighbors, so the far
// edges of the grid are outside.
func (g Geometry) PositionToCell(p Point) (x, y uint64, err error) {
	fx := math.Floor((p.X - g.Origin.X) / g.Resolution)
	fy := math.Floor((p.Y - g.Origin.Y) / g.Resolution)

	if math.IsNaN(fx) || math.IsNaN(fy) ||
		fx < 0 || fy < 0 ||
		fx >= float64(g.XCells) || fy >= float64(g.YCells) {
		return 0, 0, fmt.Errorf("%w: (%v, %v)", ErrOutsideGrid, p.X, p.Y)
	}

	return uint64(fx), uint64(fy), nil
}

// CellCenter returns the world position of the center of a cell.
func (g Geometry) CellCenter(x, y uint64) (Point, error) {
	if x >= g.XCells || y >= g.YCells {
		return Point{}, fmt.Errorf("%w: cell (%d, %d)", ErrOutsideGrid, x, y)
	}

	return Point{
		X: g.Origin.X + (float64(x)+0.5)*g.Resolution,
		Y: g.Origin.Y + (float64(y)+0.5)*g.Resolution,
	}, nil
}
