package mesh

import (
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
)

// This is for debugging purposes only.

const dbgDrawPadding = 20

// DebugDraw renders the triangles that do not touch the super triangle to a
// PNG at path. Interior triangles are filled, constrained edges are drawn
// thick in a color per kind.
func (m *Mesh) DebugDraw(path string, scale float64) error {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range m.verts {
		minX, minY = math.Min(minX, v.Point.X), math.Min(minY, v.Point.Y)
		maxX, maxY = math.Max(maxX, v.Point.X), math.Max(maxY, v.Point.Y)
	}
	if len(m.verts) == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	width := int(scale*(maxX-minX)) + dbgDrawPadding*2
	height := int(scale*(maxY-minY)) + dbgDrawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(dbgDrawPadding, dbgDrawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	path3 := func(tri *Triangle) {
		p := m.point(tri.V[0])
		c.MoveTo(p.X, p.Y)
		for _, v := range tri.V[1:] {
			p = m.point(v)
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()
	}

	c.SetLineWidth(1 / scale)
	m.Each(func(_ int, tri *Triangle) {
		if tri.hasSuper() {
			return
		}
		path3(tri)
		switch tri.Region {
		case Interior:
			c.SetRGB(0, 0.4, 0)
		case Exterior:
			c.SetRGB(0.15, 0.15, 0.15)
		default:
			c.SetRGB(0.3, 0.3, 0.5)
		}
		c.FillPreserve()
		c.SetRGB(0, 1, 1)
		c.Stroke()
	})

	c.SetLineWidth(3 / scale)
	for _, s := range m.Segments() {
		switch s.Kind {
		case Contour:
			c.SetRGB(1, 1, 0)
		case Hole:
			c.SetRGB(1, 0.3, 0.3)
		default:
			c.SetRGB(1, 0.5, 1)
		}
		drawLine(c, m.point(s.A), m.point(s.B))
		c.Stroke()
	}

	c.SetRGB(1, 1, 1)
	for _, v := range m.verts {
		c.DrawCircle(v.Point.X, v.Point.Y, 2/scale)
		c.Fill()
	}
	return c.SavePNG(path)
}

func drawLine(c *gg.Context, a, b r2.Point) {
	c.MoveTo(a.X, a.Y)
	c.LineTo(b.X, b.Y)
}
