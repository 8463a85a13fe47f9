// Package render draws a dependency graph as a raster image
package render

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"

	"github.com/alevsk/ci-scope/internal/graph"
)

const (
	nodeRadius   = 22.0
	arrowLength  = 12.0
	arrowWidth   = 6.0
	loopRadius   = 16.0
	titleMargin  = 40.0
	canvasMargin = 90.0
	pairOffset   = 8.0
)

// Options contains configuration options for the renderer
type Options struct {
	// Width of the image in pixels
	Width int
	// Height of the image in pixels
	Height int
	// Title is drawn at the top of the image
	Title string
}

// DefaultOptions returns the default renderer options
func DefaultOptions() *Options {
	return &Options{
		Width:  1200,
		Height: 800,
		Title:  "GitLab CI Templates Relationships",
	}
}

// Renderer draws a dependency graph to w
type Renderer interface {
	Render(g *graph.DependencyGraph, w io.Writer) error
}

// Point is a position on the canvas
type Point struct {
	X, Y float64
}

// PNGRenderer implements Renderer producing PNG images
type PNGRenderer struct {
	opts *Options
}

// NewPNGRenderer creates a new PNGRenderer, using defaults for unset options
func NewPNGRenderer(opts *Options) *PNGRenderer {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Height <= 0 {
		opts.Height = defaults.Height
	}
	return &PNGRenderer{opts: opts}
}

// RenderFile renders g into the file at path, replacing it if it exists
func (r *PNGRenderer) RenderFile(g *graph.DependencyGraph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.Render(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render draws g as a PNG image
func (r *PNGRenderer) Render(g *graph.DependencyGraph, w io.Writer) error {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if r.opts.Title != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(r.opts.Title, float64(r.opts.Width)/2, titleMargin/2, 0.5, 0.5)
	}

	nodes := g.Nodes()
	pos := Layout(nodes, r.opts.Width, r.opts.Height)
	edges := g.Edges()

	present := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		present[[2]string{e.Source, e.Target}] = true
	}

	dc.SetLineWidth(1.5)
	for _, e := range edges {
		from, to := pos[e.Source], pos[e.Target]
		if e.Source == e.Target {
			drawLoop(dc, from, e.Kind)
			continue
		}
		// Offset opposite edges of a 2-cycle so both stay visible
		offset := 0.0
		if present[[2]string{e.Target, e.Source}] {
			offset = pairOffset
		}
		drawEdge(dc, from, to, offset, e.Kind)
	}

	for _, node := range nodes {
		p := pos[node]
		dc.SetHexColor("#add8e6")
		dc.DrawCircle(p.X, p.Y, nodeRadius)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(node, p.X, p.Y, 0.5, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// Layout places nodes evenly on a circle centred in the drawing area below the title
func Layout(nodes []string, width, height int) map[string]Point {
	pos := make(map[string]Point, len(nodes))
	cx := float64(width) / 2
	cy := (float64(height) + titleMargin) / 2
	if len(nodes) == 1 {
		pos[nodes[0]] = Point{X: cx, Y: cy}
		return pos
	}

	radius := math.Min(float64(width), float64(height)-titleMargin)/2 - canvasMargin
	if radius < nodeRadius {
		radius = nodeRadius
	}
	for i, node := range nodes {
		angle := 2*math.Pi*float64(i)/float64(len(nodes)) - math.Pi/2
		pos[node] = Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
	return pos
}

func drawEdge(dc *gg.Context, from, to Point, offset float64, label string) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	// perpendicular shift
	px, py := -uy*offset, ux*offset

	start := Point{X: from.X + ux*nodeRadius + px, Y: from.Y + uy*nodeRadius + py}
	end := Point{X: to.X - ux*nodeRadius + px, Y: to.Y - uy*nodeRadius + py}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawLine(start.X, start.Y, end.X, end.Y)
	dc.Stroke()

	base := Point{X: end.X - ux*arrowLength, Y: end.Y - uy*arrowLength}
	dc.MoveTo(end.X, end.Y)
	dc.LineTo(base.X-uy*arrowWidth, base.Y+ux*arrowWidth)
	dc.LineTo(base.X+uy*arrowWidth, base.Y-ux*arrowWidth)
	dc.ClosePath()
	dc.Fill()

	mid := Point{X: (start.X+end.X)/2 + px, Y: (start.Y+end.Y)/2 + py}
	dc.SetRGB(0.4, 0, 0)
	dc.DrawStringAnchored(label, mid.X, mid.Y, 0.5, 0.5)
}

func drawLoop(dc *gg.Context, at Point, label string) {
	center := Point{X: at.X, Y: at.Y - nodeRadius - loopRadius + 4}
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawCircle(center.X, center.Y, loopRadius)
	dc.Stroke()

	dc.SetRGB(0.4, 0, 0)
	dc.DrawStringAnchored(label, center.X, center.Y-loopRadius-8, 0.5, 0.5)
}
