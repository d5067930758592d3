package engine

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// MaxCanvas bounds the requested output edge in pixels.
const MaxCanvas = 8192

const (
	gradientDots         = "qr-dots-gradient"
	gradientCornerSquare = "qr-corner-square-gradient"
	gradientCornerDot    = "qr-corner-dot-gradient"
	gradientBackground   = "qr-background-gradient"
)

// scene is a matrix laid out on a canvas, ready to be drawn.
type scene struct {
	opts Options
	m    *Matrix
	l    layout
	logo *box
}

func newScene(opts Options) (*scene, error) {
	if opts.Width <= 0 || opts.Width > MaxCanvas {
		return nil, apperr.New(apperr.KindValidation, "engine.render",
			fmt.Sprintf("Size must be between 1 and %d pixels", MaxCanvas))
	}

	m, err := NewMatrix(opts.Data, opts.QROptions.ErrorCorrectionLevel)
	if err != nil {
		return nil, err
	}

	s := &scene{opts: opts, m: m, l: newLayout(opts.Width, m.Size(), opts.Shape)}
	if opts.Image != "" && opts.ImageOptions != nil && opts.ImageOptions.ImageSize > 0 {
		b := s.l.logoBox(opts.ImageOptions.ImageSize)
		s.logo = &b
	}
	return s, nil
}

// RenderSVG draws the code as a standalone SVG document.
func RenderSVG(opts Options) ([]byte, error) {
	s, err := newScene(opts)
	if err != nil {
		return nil, err
	}
	return s.svg(true), nil
}

// svg serializes the scene. Raster output passes withLogo=false and
// composites the logo itself.
func (s *scene) svg(withLogo bool) []byte {
	size := num(s.l.size)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		size, size, size, size)

	s.writeDefs(&b)
	s.writeBackground(&b)

	dotColor := parseColor(s.opts.DotsOptions.Color, black)
	writePath(&b, s.dotsPath(), fill(dotColor, s.opts.DotsOptions.Gradient, gradientDots), "")

	squareColor := parseColor(s.opts.CornersSquareOptions.Color, dotColor)
	writePath(&b, s.cornerSquaresPath(), fill(squareColor, s.opts.CornersSquareOptions.Gradient, gradientCornerSquare), "evenodd")

	cornerDotColor := parseColor(s.opts.CornersDotOptions.Color, squareColor)
	writePath(&b, s.cornerDotsPath(), fill(cornerDotColor, s.opts.CornersDotOptions.Gradient, gradientCornerDot), "")

	if withLogo {
		s.writeLogo(&b)
	}

	b.WriteString(`</svg>`)
	return []byte(b.String())
}

func (s *scene) writeDefs(b *strings.Builder) {
	grads := []struct {
		id string
		g  *qrconfig.Gradient
	}{
		{gradientBackground, s.opts.BackgroundOptions.Gradient},
		{gradientDots, s.opts.DotsOptions.Gradient},
		{gradientCornerSquare, s.opts.CornersSquareOptions.Gradient},
		{gradientCornerDot, s.opts.CornersDotOptions.Gradient},
	}

	open := false
	for _, g := range grads {
		if g.g == nil || len(g.g.ColorStops) == 0 {
			continue
		}
		if !open {
			b.WriteString(`<defs>`)
			open = true
		}
		writeGradient(b, g.id, g.g, s.l.size)
	}
	if open {
		b.WriteString(`</defs>`)
	}
}

func writeGradient(b *strings.Builder, id string, g *qrconfig.Gradient, size float64) {
	c := size / 2
	switch g.Type {
	case qrconfig.GradientRadial:
		fmt.Fprintf(b, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s">`,
			id, num(c), num(c), num(c))
	default:
		rad := g.Rotation * math.Pi / 180
		dx, dy := math.Cos(rad)*c, math.Sin(rad)*c
		fmt.Fprintf(b, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`,
			id, num(c-dx), num(c-dy), num(c+dx), num(c+dy))
	}

	for _, stop := range g.ColorStops {
		hex, alpha := paint(parseColor(stop.Color, black))
		fmt.Fprintf(b, `<stop offset="%s" stop-color="%s"`, num(stop.Offset), hex)
		if alpha < 1 {
			fmt.Fprintf(b, ` stop-opacity="%s"`, num(alpha))
		}
		b.WriteString(`/>`)
	}

	if g.Type == qrconfig.GradientRadial {
		b.WriteString(`</radialGradient>`)
	} else {
		b.WriteString(`</linearGradient>`)
	}
}

// fill returns the fill attributes for a solid color or gradient.
func fill(c color.NRGBA, g *qrconfig.Gradient, id string) string {
	if g != nil && len(g.ColorStops) > 0 {
		return fmt.Sprintf(` fill="url(#%s)"`, id)
	}
	if c.A == 0 {
		return ` fill="none"`
	}
	hex, alpha := paint(c)
	if alpha < 1 {
		return fmt.Sprintf(` fill="%s" fill-opacity="%s"`, hex, num(alpha))
	}
	return fmt.Sprintf(` fill="%s"`, hex)
}

func writePath(b *strings.Builder, d, fillAttrs, rule string) {
	if d == "" {
		return
	}
	b.WriteString(`<path`)
	b.WriteString(fillAttrs)
	if rule != "" {
		fmt.Fprintf(b, ` fill-rule="%s"`, rule)
	}
	fmt.Fprintf(b, ` d="%s"/>`, d)
}

func (s *scene) writeBackground(b *strings.Builder) {
	bg := s.opts.BackgroundOptions
	bgColor := parseColor(bg.Color, white)
	attrs := fill(bgColor, bg.Gradient, gradientBackground)
	if attrs == ` fill="none"` {
		return
	}

	if s.opts.Shape == qrconfig.ShapeCircle {
		c := num(s.l.size / 2)
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s"%s/>`, c, c, c, attrs)
		return
	}

	size := num(s.l.size)
	round := math.Max(0, math.Min(bg.Round, 1)) * s.l.size / 2
	if round > 0 {
		fmt.Fprintf(b, `<rect width="%s" height="%s" rx="%s" ry="%s"%s/>`, size, size, num(round), num(round), attrs)
		return
	}
	fmt.Fprintf(b, `<rect width="%s" height="%s"%s/>`, size, size, attrs)
}

// hidden reports whether the module at (x, y) sits under the logo.
func (s *scene) hidden(x, y int) bool {
	if s.logo == nil || !s.opts.ImageOptions.HideBackgroundDots {
		return false
	}
	px, py := s.l.at(x, y)
	return s.logo.overlaps(px, py, s.l.dot)
}

func (s *scene) drawn(x, y int) bool {
	return s.m.Dark(x, y) && !s.m.InFinder(x, y) && !s.hidden(x, y)
}

func (s *scene) dotsPath() string {
	var p pathBuilder
	d := s.l.dot
	t := s.opts.DotsOptions.Type

	for y := 0; y < s.m.Size(); y++ {
		for x := 0; x < s.m.Size(); x++ {
			if !s.drawn(x, y) {
				continue
			}
			px, py := s.l.at(x, y)
			n := neighbours{
				top:    s.drawn(x, y-1),
				right:  s.drawn(x+1, y),
				bottom: s.drawn(x, y+1),
				left:   s.drawn(x-1, y),
			}
			drawDot(&p, t, px, py, d, n)
		}
	}

	if s.l.extra > 0 {
		s.decorativeDots(&p, t)
	}
	return p.String()
}

func drawDot(p *pathBuilder, t qrconfig.DotType, x, y, d float64, n neighbours) {
	if t == qrconfig.DotDots {
		p.circle(x+d/2, y+d/2, d/2)
		return
	}
	p.rect(x, y, d, d, dotRadii(t, d, n))
}

// decorativeDots fills the band between the matrix and the circular
// outline with a fixed pseudo-random pattern.
func (s *scene) decorativeDots(p *pathBuilder, t qrconfig.DotType) {
	d := s.l.dot
	c := s.l.size / 2
	limit := c - d
	n := s.m.Size()

	for gy := -s.l.extra; gy < n+s.l.extra; gy++ {
		for gx := -s.l.extra; gx < n+s.l.extra; gx++ {
			if gx >= -1 && gx <= n && gy >= -1 && gy <= n {
				continue
			}
			if !decorSet(gx, gy) {
				continue
			}
			px, py := s.l.at(gx, gy)
			if math.Hypot(px+d/2-c, py+d/2-c) > limit {
				continue
			}
			drawDot(p, t, px, py, d, neighbours{})
		}
	}
}

func decorSet(x, y int) bool {
	h := uint32(x)*73856093 ^ uint32(y)*19349663
	h ^= h >> 13
	h *= 0x5bd1e995
	return (h>>15)&1 == 1
}

func (s *scene) cornerSquaresPath() string {
	var p pathBuilder
	d := s.l.dot
	t := s.opts.CornersSquareOptions.Type

	for _, o := range s.m.finderOrigins() {
		x, y := s.l.at(o[0], o[1])
		switch t {
		case qrconfig.CornerDot:
			p.circle(x+3.5*d, y+3.5*d, 3.5*d)
			p.circle(x+3.5*d, y+3.5*d, 2.5*d)
		case qrconfig.CornerDots:
			for j := 0; j < finderSize; j++ {
				for i := 0; i < finderSize; i++ {
					if i == 0 || j == 0 || i == finderSize-1 || j == finderSize-1 {
						p.circle(x+(float64(i)+0.5)*d, y+(float64(j)+0.5)*d, d/2)
					}
				}
			}
		default:
			outer, inner := cornerSquareRadii(t, d)
			p.rect(x, y, 7*d, 7*d, outer)
			p.rect(x+d, y+d, 5*d, 5*d, inner)
		}
	}
	return p.String()
}

func (s *scene) cornerDotsPath() string {
	var p pathBuilder
	d := s.l.dot
	t := s.opts.CornersDotOptions.Type

	for _, o := range s.m.finderOrigins() {
		x, y := s.l.at(o[0]+2, o[1]+2)
		switch t {
		case qrconfig.CornerDot:
			p.circle(x+1.5*d, y+1.5*d, 1.5*d)
		case qrconfig.CornerDots:
			for j := 0; j < 3; j++ {
				for i := 0; i < 3; i++ {
					p.circle(x+(float64(i)+0.5)*d, y+(float64(j)+0.5)*d, d/2)
				}
			}
		default:
			p.rect(x, y, 3*d, 3*d, cornerDotRadii(t, d))
		}
	}
	return p.String()
}

func (s *scene) writeLogo(b *strings.Builder) {
	if s.logo == nil {
		return
	}
	area, ok := s.logo.inset(s.opts.ImageOptions.Margin)
	if !ok {
		return
	}
	fmt.Fprintf(b, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet" href="%s"/>`,
		num(area.x), num(area.y), num(area.side), num(area.side), html.EscapeString(s.opts.Image))
}
