package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/gridstash/internal/model"
)

// point is a drawing-space coordinate in DXF units.
type point struct {
	x, y float64
}

// segment is a line between two points, used for chaining loose LINE and
// ARC entities into closed shapes.
type segment struct {
	start point
	end   point
}

// shape is a closed polygon in drawing space.
type shape []point

func (s shape) bounds() (minP, maxP point) {
	if len(s) == 0 {
		return point{}, point{}
	}
	minP, maxP = s[0], s[0]
	for _, p := range s[1:] {
		minP.x = math.Min(minP.x, p.x)
		minP.y = math.Min(minP.y, p.y)
		maxP.x = math.Max(maxP.x, p.x)
		maxP.y = math.Max(maxP.y, p.y)
	}
	return minP, maxP
}

// area computes the absolute area with the shoelace formula.
func (s shape) area() float64 {
	n := len(s)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += s[i].x*s[j].y - s[j].x*s[i].y
	}
	return math.Abs(a) / 2
}

// footprint converts a drawing-space extent to whole grid cells, rounding
// up so the item always covers the drawn outline.
func footprint(width, height, cellSize float64) (w, h int) {
	const eps = 1e-9
	w = int(math.Ceil(width/cellSize - eps))
	h = int(math.Ceil(height/cellSize - eps))
	return max(w, 1), max(h, 1)
}

// ImportDXF imports item descriptors from a DXF drawing. Each closed shape
// (LWPOLYLINE, CIRCLE, or a chain of connected LINEs and ARCs) becomes a
// descriptor whose footprint is its bounding box measured in cellSize units.
func ImportDXF(path string, cellSize float64) ImportResult {
	result := ImportResult{}

	if cellSize <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Cell size must be positive, got %g", cellSize))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []shape
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			s := lwPolylineToShape(e)
			if len(s) >= 3 {
				shapes = append(shapes, s)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			shapes = append(shapes, circleToShape(e, 64))
		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}
		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	shapes = append(shapes, chainSegments(segments, 0.01)...)
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	result.Items, result.Warnings = shapesToDescriptors(shapes, cellSize, result.Warnings)
	return result
}

func shapesToDescriptors(shapes []shape, cellSize float64, warnings []string) ([]model.ItemDescriptor, []string) {
	var items []model.ItemDescriptor
	for i, s := range shapes {
		minP, maxP := s.bounds()
		width := maxP.x - minP.x
		height := maxP.y - minP.y
		if width < 0.01 || height < 0.01 {
			warnings = append(warnings, fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", width, height))
			continue
		}
		w, h := footprint(width, height, cellSize)
		items = append(items, model.NewItemDescriptor(fmt.Sprintf("DXF Item %d", i+1), w, h, ""))
	}
	return items, warnings
}

// lwPolylineToShape converts a LWPOLYLINE to a polygon. Bulged vertices are
// expanded into arc points so the bounds include the arc.
func lwPolylineToShape(lw *entity.LwPolyline) shape {
	var s shape
	for i, v := range lw.Vertices {
		current := point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) <= 1e-9 {
			s = append(s, current)
			continue
		}

		next := lw.Vertices[(i+1)%len(lw.Vertices)]
		arc := bulgeArcPoints(current, point{next[0], next[1]}, bulge, 32)
		s = append(s, arc[:len(arc)-1]...)
	}
	return s
}

// bulgeArcPoints samples the arc between p1 and p2 for a DXF bulge factor
// (the tangent of a quarter of the included angle).
func bulgeArcPoints(p1, p2 point, bulge float64, numSegments int) []point {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chord, dx/chord
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx := mx + perpX*dist
	cy := my + perpY*dist

	start := math.Atan2(p1.y-cy, p1.x-cx)
	end := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 {
		if end > start {
			end -= 2 * math.Pi
		}
	} else if end < start {
		end += 2 * math.Pi
	}

	pts := make([]point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		a := start + float64(i)/float64(numSegments)*(end-start)
		pts = append(pts, point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

func circleToShape(c *entity.Circle, numSegments int) shape {
	s := make(shape, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := range s {
		a := 2 * math.Pi * float64(i) / float64(numSegments)
		s[i] = point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return s
}

func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := range pts {
		ang := start + float64(i)/float64(numSegments)*(end-start)
		pts[i] = point{cx + r*math.Cos(ang), cy + r*math.Sin(ang)}
	}
	return pts
}

func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments joins segments whose endpoints lie within tolerance into
// shapes, largest area first. Chains with fewer than three points are dropped.
func chainSegments(segs []segment, tolerance float64) []shape {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var shapes []shape
	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		chain := shape{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}
		if len(chain) >= 3 {
			shapes = append(shapes, chain)
		}
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].area() > shapes[j].area()
	})
	return shapes
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}
