package ugolnik

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
)

const drawPadding = 16

// Render draws the mesh into an image width pixels wide. Triangles are shaded
// by their smallest angle, from red at 0 to green at 60 degrees, and
// constrained edges are drawn thick.
func (r *Result) Render(width int) image.Image {
	return r.draw(width).Image()
}

func (r *Result) EncodePNG(w io.Writer, width int) error {
	return r.draw(width).EncodePNG(w)
}

func (r *Result) DrawPNG(path string, width int) error {
	return r.draw(width).SavePNG(path)
}

func (r *Result) draw(width int) *gg.Context {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range r.Vertices {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	if len(r.Vertices) == 0 {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}
	w, h := maxX-minX, maxY-minY
	if w <= 0 {
		w = 1
	}
	if width <= 2*drawPadding {
		width = 800
	}
	scale := float64(width-2*drawPadding) / w
	height := int(scale*h) + 2*drawPadding

	c := gg.NewContext(width, height)
	c.SetRGB(1, 1, 1)
	c.Clear()

	// y up
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	c.SetLineWidth(1 / scale)
	for _, tri := range r.Triangles {
		for _, v := range tri.V {
			p := r.Vertices[v]
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()

		worst := 60.0
		for _, e := range tri.Edges {
			worst = math.Min(worst, e.Angle)
		}
		q := worst / 60
		c.SetRGB(1-q, 0.3+0.6*q, 0.3)
		c.FillPreserve()
		c.SetRGB(0.2, 0.2, 0.2)
		c.Stroke()
	}

	c.SetLineWidth(3 / scale)
	for _, tri := range r.Triangles {
		for i, e := range tri.Edges {
			if e.Constraint == None {
				continue
			}
			switch e.Constraint {
			case Contour:
				c.SetRGB(0, 0, 0)
			case Hole:
				c.SetRGB(0.1, 0.1, 0.8)
			default:
				c.SetRGB(0.7, 0, 0.7)
			}
			a, b := r.Vertices[tri.V[i]], r.Vertices[tri.V[(i+1)%3]]
			c.MoveTo(a.X, a.Y)
			c.LineTo(b.X, b.Y)
			c.Stroke()
		}
	}
	return c
}
