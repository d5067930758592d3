package qrconfig

// Overrides is a partial style. It has no field for Data, DownloadSize, Logo
// or ErrorCorrectionLevel, so a template can never change them.
type Overrides struct {
	DotType              *DotType    `json:"dotType,omitempty"`
	DotColor             *string     `json:"dotColor,omitempty"`
	DotGradient          *Gradient   `json:"dotGradient,omitempty"`
	CornerSquareType     *CornerType `json:"cornerSquareType,omitempty"`
	CornerSquareColor    *string     `json:"cornerSquareColor,omitempty"`
	CornerSquareGradient *Gradient   `json:"cornerSquareGradient,omitempty"`
	CornerDotType        *CornerType `json:"cornerDotType,omitempty"`
	CornerDotColor       *string     `json:"cornerDotColor,omitempty"`
	CornerDotGradient    *Gradient   `json:"cornerDotGradient,omitempty"`
	BackgroundColor      *string     `json:"backgroundColor,omitempty"`
	BackgroundGradient   *Gradient   `json:"backgroundGradient,omitempty"`
	BackgroundRound      *float64    `json:"backgroundRound,omitempty"`
	Shape                *Shape      `json:"shape,omitempty"`
	ImageSize            *float64    `json:"imageSize,omitempty"`
	ImageMargin          *float64    `json:"imageMargin,omitempty"`
	HideBackgroundDots   *bool       `json:"hideBackgroundDots,omitempty"`
	Shadow               *Shadow     `json:"shadow,omitempty"`

	// ClearGradients drops every gradient before the overrides are merged.
	ClearGradients bool `json:"clearGradients,omitempty"`
}

type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Overrides   Overrides `json:"overrides"`
}

// Apply returns c with every set override copied over it.
func (o Overrides) Apply(c Config) Config {
	if o.ClearGradients {
		c.DotGradient = nil
		c.CornerSquareGradient = nil
		c.CornerDotGradient = nil
		c.BackgroundGradient = nil
	}

	setIf(&c.DotType, o.DotType)
	setIf(&c.DotColor, o.DotColor)
	setIf(&c.CornerSquareType, o.CornerSquareType)
	setIf(&c.CornerSquareColor, o.CornerSquareColor)
	setIf(&c.CornerDotType, o.CornerDotType)
	setIf(&c.CornerDotColor, o.CornerDotColor)
	setIf(&c.BackgroundColor, o.BackgroundColor)
	setIf(&c.BackgroundRound, o.BackgroundRound)
	setIf(&c.Shape, o.Shape)
	setIf(&c.ImageSize, o.ImageSize)
	setIf(&c.ImageMargin, o.ImageMargin)
	setIf(&c.HideBackgroundDots, o.HideBackgroundDots)
	setIf(&c.Shadow, o.Shadow)

	if o.DotGradient != nil {
		c.DotGradient = o.DotGradient.Clone()
	}
	if o.CornerSquareGradient != nil {
		c.CornerSquareGradient = o.CornerSquareGradient.Clone()
	}
	if o.CornerDotGradient != nil {
		c.CornerDotGradient = o.CornerDotGradient.Clone()
	}
	if o.BackgroundGradient != nil {
		c.BackgroundGradient = o.BackgroundGradient.Clone()
	}
	return c
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Clone returns a deep copy of g; a nil g stays nil.
func (g *Gradient) Clone() *Gradient {
	if g == nil {
		return nil
	}
	out := *g
	out.ColorStops = append([]ColorStop(nil), g.ColorStops...)
	return &out
}

func ptr[T any](v T) *T { return &v }

func twoStop(t GradientType, rotation float64, from, to string) *Gradient {
	return &Gradient{
		Type:     t,
		Rotation: rotation,
		ColorStops: []ColorStop{
			{Offset: 0, Color: from},
			{Offset: 1, Color: to},
		},
	}
}

var templates = []Template{
	{
		ID:          "classic",
		Name:        "Classic",
		Description: "Black square modules on white, the most scannable option.",
		Overrides: Overrides{
			ClearGradients:    true,
			DotType:           ptr(DotSquare),
			DotColor:          ptr("#000000"),
			CornerSquareType:  ptr(CornerSquare),
			CornerSquareColor: ptr("#000000"),
			CornerDotType:     ptr(CornerSquare),
			CornerDotColor:    ptr("#000000"),
			BackgroundColor:   ptr("#ffffff"),
			BackgroundRound:   ptr(0.0),
			Shape:             ptr(ShapeSquare),
			Shadow:            ptr(DefaultShadow()),
		},
	},
	{
		ID:          "ocean",
		Name:        "Ocean",
		Description: "Rounded modules with a deep blue to teal gradient.",
		Overrides: Overrides{
			ClearGradients:    true,
			DotType:           ptr(DotRounded),
			DotColor:          ptr("#0b3d91"),
			DotGradient:       twoStop(GradientLinear, 45, "#0b3d91", "#0fb9b1"),
			CornerSquareType:  ptr(CornerExtraRounded),
			CornerSquareColor: ptr("#0b3d91"),
			CornerDotType:     ptr(CornerDot),
			CornerDotColor:    ptr("#0fb9b1"),
			BackgroundColor:   ptr("#f0fbff"),
		},
	},
	{
		ID:          "sunset",
		Name:        "Sunset",
		Description: "Classy modules fading from orange to magenta.",
		Overrides: Overrides{
			ClearGradients:    true,
			DotType:           ptr(DotClassy),
			DotColor:          ptr("#ff6b35"),
			DotGradient:       twoStop(GradientLinear, 90, "#ff6b35", "#c2185b"),
			CornerSquareType:  ptr(CornerClassy),
			CornerSquareColor: ptr("#c2185b"),
			CornerDotType:     ptr(CornerSquare),
			CornerDotColor:    ptr("#ff6b35"),
			BackgroundColor:   ptr("#fff8f0"),
		},
	},
	{
		ID:          "dots",
		Name:        "Polka",
		Description: "Circular dots with round finder patterns.",
		Overrides: Overrides{
			ClearGradients:    true,
			DotType:           ptr(DotDots),
			DotColor:          ptr("#222222"),
			CornerSquareType:  ptr(CornerDot),
			CornerSquareColor: ptr("#222222"),
			CornerDotType:     ptr(CornerDot),
			CornerDotColor:    ptr("#222222"),
			BackgroundColor:   ptr("#ffffff"),
		},
	},
	{
		ID:          "night",
		Name:        "Night",
		Description: "Light modules on a dark, rounded background with a soft glow.",
		Overrides: Overrides{
			ClearGradients:    true,
			DotType:           ptr(DotExtraRounded),
			DotColor:          ptr("#e0e0ff"),
			CornerSquareType:  ptr(CornerRounded),
			CornerSquareColor: ptr("#8c9eff"),
			CornerDotType:     ptr(CornerRounded),
			CornerDotColor:    ptr("#e0e0ff"),
			BackgroundColor:   ptr("#1a1a2e"),
			BackgroundRound:   ptr(0.2),
			Shadow: &Shadow{
				Enabled: true,
				Color:   "#8c9eff",
				Opacity: 0.5,
				Blur:    12,
				OffsetX: 0,
				OffsetY: 0,
			},
		},
	},
	{
		ID:          "forest",
		Name:        "Forest",
		Description: "Green radial gradient in a circular frame.",
		Overrides: Overrides{
			ClearGradients:    true,
			DotType:           ptr(DotClassyRounded),
			DotColor:          ptr("#1b5e20"),
			DotGradient:       twoStop(GradientRadial, 0, "#43a047", "#1b5e20"),
			CornerSquareType:  ptr(CornerClassyRounded),
			CornerSquareColor: ptr("#1b5e20"),
			CornerDotType:     ptr(CornerDots),
			CornerDotColor:    ptr("#43a047"),
			BackgroundColor:   ptr("#f1f8e9"),
			Shape:             ptr(ShapeCircle),
		},
	},
	{
		ID:          "lifted",
		Name:        "Lifted",
		Description: "Plain modules raised off the page by a drop shadow.",
		Overrides: Overrides{
			ClearGradients:  true,
			DotType:         ptr(DotSquare),
			DotColor:        ptr("#263238"),
			BackgroundColor: ptr("#ffffff"),
			BackgroundRound: ptr(0.1),
			Shadow: &Shadow{
				Enabled: true,
				Color:   "#000000",
				Opacity: 0.35,
				Blur:    10,
				OffsetX: 4,
				OffsetY: 6,
			},
		},
	},
}

// Templates returns a copy of the built-in templates.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// FindTemplate looks up a built-in template by id.
func FindTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
