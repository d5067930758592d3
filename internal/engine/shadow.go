package engine

import (
	"image"
	"image/draw"
	"math"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// ShadowFilterID is the id of the injected drop shadow filter.
const ShadowFilterID = "qrstyler-shadow"

// ApplySVGShadow adds a feDropShadow filter to doc and wraps everything but
// <defs> in a group that uses it. Applying it again replaces the filter
// instead of stacking a second one. A disabled shadow returns doc as is.
func ApplySVGShadow(doc []byte, s qrconfig.Shadow) ([]byte, error) {
	if !s.Enabled {
		return doc, nil
	}

	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(doc); err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "engine.svg_shadow", "Failed to apply shadow", err)
	}
	root := tree.Root()
	if root == nil {
		return nil, apperr.New(apperr.KindExport, "engine.svg_shadow", "Failed to apply shadow")
	}

	defs := root.SelectElement("defs")
	if defs == nil {
		defs = etree.NewElement("defs")
		root.InsertChildAt(0, defs)
	}
	for _, existing := range defs.SelectElements("filter") {
		if existing.SelectAttrValue("id", "") == ShadowFilterID {
			defs.RemoveChild(existing)
		}
	}

	filter := defs.CreateElement("filter")
	filter.CreateAttr("id", ShadowFilterID)
	filter.CreateAttr("x", "-20%")
	filter.CreateAttr("y", "-20%")
	filter.CreateAttr("width", "140%")
	filter.CreateAttr("height", "140%")

	drop := filter.CreateElement("feDropShadow")
	drop.CreateAttr("dx", num(s.OffsetX))
	drop.CreateAttr("dy", num(s.OffsetY))
	drop.CreateAttr("stdDeviation", num(s.Blur))
	drop.CreateAttr("flood-color", s.Color)
	drop.CreateAttr("flood-opacity", num(s.Opacity))

	ref := "url(#" + ShadowFilterID + ")"
	var content []*etree.Element
	for _, child := range root.ChildElements() {
		if child == defs {
			continue
		}
		content = append(content, child)
	}

	// A group left by an earlier pass is reused as is.
	if len(content) == 1 && content[0].Tag == "g" && content[0].SelectAttrValue("filter", "") == ref {
		return serialize(tree)
	}
	if len(content) > 0 {
		group := etree.NewElement("g")
		group.CreateAttr("filter", ref)
		for _, child := range content {
			root.RemoveChild(child)
			group.AddChild(child)
		}
		root.AddChild(group)
	}
	return serialize(tree)
}

func serialize(tree *etree.Document) ([]byte, error) {
	out, err := tree.WriteToBytes()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExport, "engine.svg_shadow", "Failed to apply shadow", err)
	}
	return out, nil
}

// ApplyRasterShadow composites a blurred, offset silhouette of img beneath
// it. The canvas size is unchanged, so shadow falling outside it is
// clipped just like the SVG filter is clipped by the viewport.
func ApplyRasterShadow(img *image.NRGBA, s qrconfig.Shadow) *image.NRGBA {
	if !s.Enabled {
		return img
	}

	tint := parseColor(s.Color, black)
	alpha := math.Max(0, math.Min(s.Opacity, 1))

	bounds := img.Bounds()
	silhouette := image.NewNRGBA(bounds)
	for i := 0; i < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a == 0 {
			continue
		}
		silhouette.Pix[i] = tint.R
		silhouette.Pix[i+1] = tint.G
		silhouette.Pix[i+2] = tint.B
		silhouette.Pix[i+3] = uint8(math.Round(float64(a) * alpha))
	}

	var shadow image.Image = silhouette
	if s.Blur > 0 {
		shadow = imaging.Blur(silhouette, s.Blur)
	}

	out := image.NewNRGBA(bounds)
	offset := image.Pt(int(math.Round(s.OffsetX)), int(math.Round(s.OffsetY)))
	draw.Draw(out, bounds.Add(offset), shadow, bounds.Min, draw.Over)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}
