package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// quietModules is the light margin around a square code, in modules.
const quietModules = 2

type layout struct {
	size   float64
	count  int
	dot    float64
	origin float64
	// extra is the number of decorative module rows around the matrix
	// when the code is drawn inside a circle.
	extra int
}

func newLayout(size, count int, shape qrconfig.Shape) layout {
	span := count + 2*quietModules
	extra := 0
	if shape == qrconfig.ShapeCircle {
		span = int(math.Ceil(float64(count) * math.Sqrt2))
		if (span-count)%2 != 0 {
			span++
		}
		extra = (span - count) / 2
	}

	dot := float64(size) / float64(span)
	if dot >= 1 {
		dot = math.Floor(dot)
	}
	return layout{
		size:   float64(size),
		count:  count,
		dot:    dot,
		origin: (float64(size) - dot*float64(count)) / 2,
		extra:  extra,
	}
}

// at returns the top-left pixel of module (x, y).
func (l layout) at(x, y int) (float64, float64) {
	return l.origin + float64(x)*l.dot, l.origin + float64(y)*l.dot
}

// box is an axis-aligned square in canvas pixels.
type box struct {
	x, y, side float64
}

func (b box) overlaps(x, y, side float64) bool {
	return x < b.x+b.side && x+side > b.x && y < b.y+b.side && y+side > b.y
}

func (b box) inset(by float64) (box, bool) {
	out := box{x: b.x + by, y: b.y + by, side: b.side - 2*by}
	return out, out.side > 0
}

// logoBox is the centred square reserved for the logo.
func (l layout) logoBox(imageSize float64) box {
	side := imageSize * l.dot * float64(l.count)
	return box{x: (l.size - side) / 2, y: (l.size - side) / 2, side: side}
}

// corner radii, clockwise from top-left
type radii [4]float64

type neighbours struct {
	top, right, bottom, left bool
}

func dotRadii(t qrconfig.DotType, d float64, n neighbours) radii {
	freeTL := !n.top && !n.left
	freeTR := !n.top && !n.right
	freeBR := !n.bottom && !n.right
	freeBL := !n.bottom && !n.left

	pick := func(free bool, r float64) float64 {
		if free {
			return r
		}
		return 0
	}

	switch t {
	case qrconfig.DotRounded:
		r := d * 0.35
		return radii{pick(freeTL, r), pick(freeTR, r), pick(freeBR, r), pick(freeBL, r)}
	case qrconfig.DotExtraRounded:
		r := d / 2
		return radii{pick(freeTL, r), pick(freeTR, r), pick(freeBR, r), pick(freeBL, r)}
	case qrconfig.DotClassy:
		r := d / 2
		return radii{pick(freeTL, r), 0, pick(freeBR, r), 0}
	case qrconfig.DotClassyRounded:
		return radii{pick(freeTL, d/2), pick(freeTR, d*0.2), pick(freeBR, d/2), pick(freeBL, d*0.2)}
	default:
		return radii{}
	}
}

// cornerSquareRadii returns the outer and inner radii of a finder ring.
func cornerSquareRadii(t qrconfig.CornerType, d float64) (radii, radii) {
	switch t {
	case qrconfig.CornerRounded:
		return uniform(1.5 * d), uniform(0.5 * d)
	case qrconfig.CornerExtraRounded:
		return uniform(2.5 * d), uniform(1.5 * d)
	case qrconfig.CornerClassy:
		return radii{2.5 * d, 0, 2.5 * d, 0}, radii{1.5 * d, 0, 1.5 * d, 0}
	case qrconfig.CornerClassyRounded:
		return radii{2.5 * d, 1.5 * d, 2.5 * d, 1.5 * d}, radii{1.5 * d, 0.5 * d, 1.5 * d, 0.5 * d}
	default:
		return radii{}, radii{}
	}
}

func cornerDotRadii(t qrconfig.CornerType, d float64) radii {
	switch t {
	case qrconfig.CornerRounded:
		return uniform(0.5 * d)
	case qrconfig.CornerExtraRounded:
		return uniform(d)
	case qrconfig.CornerClassy:
		return radii{1.5 * d, 0, 1.5 * d, 0}
	case qrconfig.CornerClassyRounded:
		return radii{1.5 * d, 0.5 * d, 1.5 * d, 0.5 * d}
	default:
		return radii{}
	}
}

func uniform(r float64) radii { return radii{r, r, r, r} }

// pathBuilder accumulates SVG path data.
type pathBuilder struct {
	strings.Builder
}

func (p *pathBuilder) cmd(op string, args ...float64) {
	if p.Len() > 0 {
		p.WriteByte(' ')
	}
	p.WriteString(op)
	for i, a := range args {
		if i > 0 {
			p.WriteByte(' ')
		}
		p.WriteString(num(a))
	}
}

func (p *pathBuilder) arc(r, x, y float64) {
	p.cmd("A", r, r, 0, 0, 1, x, y)
}

// rect adds a rectangle with per-corner radii. Radii are clamped to half
// the shorter side; a zero radius is a sharp corner.
func (p *pathBuilder) rect(x, y, w, h float64, r radii) {
	limit := math.Min(w, h) / 2
	for i := range r {
		r[i] = math.Max(0, math.Min(r[i], limit))
	}
	tl, tr, br, bl := r[0], r[1], r[2], r[3]

	p.cmd("M", x+tl, y)
	p.cmd("L", x+w-tr, y)
	if tr > 0 {
		p.arc(tr, x+w, y+tr)
	}
	p.cmd("L", x+w, y+h-br)
	if br > 0 {
		p.arc(br, x+w-br, y+h)
	}
	p.cmd("L", x+bl, y+h)
	if bl > 0 {
		p.arc(bl, x, y+h-bl)
	}
	p.cmd("L", x, y+tl)
	if tl > 0 {
		p.arc(tl, x+tl, y)
	}
	p.cmd("Z")
}

func (p *pathBuilder) circle(cx, cy, r float64) {
	p.cmd("M", cx+r, cy)
	p.cmd("A", r, r, 0, 1, 1, cx-r, cy)
	p.cmd("A", r, r, 0, 1, 1, cx+r, cy)
	p.cmd("Z")
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
