// Package toast renders dismissible notifications for HTMX swaps.
package toast

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Position string

const (
	PositionTopRight    Position = "top-right"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Position    Position
	// Duration in milliseconds before the toast hides itself; 0 keeps it.
	Duration      int
	Dismissible   bool
	ShowIndicator bool
	Icon          bool
	Class         string
}

// ParseVariant maps a form value to a variant. "destructive" is accepted as
// an alias of error; anything unknown is success.
func ParseVariant(s string) Variant {
	switch s {
	case "error", "destructive":
		return VariantError
	case "warning":
		return VariantWarning
	case "info":
		return VariantInfo
	default:
		return VariantSuccess
	}
}

var variantClasses = map[Variant]string{
	VariantSuccess: "border-green-500 bg-green-50 text-green-900",
	VariantError:   "border-red-500 bg-red-50 text-red-900",
	VariantWarning: "border-yellow-500 bg-yellow-50 text-yellow-900",
	VariantInfo:    "border-blue-500 bg-blue-50 text-blue-900",
}

var positionClasses = map[Position]string{
	PositionTopRight:    "top-4 right-4",
	PositionBottomRight: "bottom-4 right-4",
	PositionBottomLeft:  "bottom-4 left-4",
}

var icons = map[Variant]string{
	VariantSuccess: "✓",
	VariantError:   "✕",
	VariantWarning: "!",
	VariantInfo:    "i",
}

// Classes returns the merged class list for p.
func Classes(p Props) string {
	return twmerge.Merge(
		"fixed z-50 flex w-80 items-start gap-3 rounded-lg border p-4 shadow-lg",
		variantClasses[variant(p)],
		positionClasses[position(p)],
		p.Class,
	)
}

func variant(p Props) Variant {
	if _, ok := variantClasses[p.Variant]; ok {
		return p.Variant
	}
	return VariantSuccess
}

func position(p Props) Position {
	if _, ok := positionClasses[p.Position]; ok {
		return p.Position
	}
	return PositionBottomRight
}

func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v := variant(p)
		esc := html.EscapeString

		if _, err := fmt.Fprintf(w, `<div role="status" aria-live="polite" data-toast data-variant="%s" data-duration="%d" class="%s">`,
			v, max(p.Duration, 0), esc(Classes(p))); err != nil {
			return err
		}
		if p.Icon {
			fmt.Fprintf(w, `<span class="font-bold" aria-hidden="true">%s</span>`, icons[v])
		}
		io.WriteString(w, `<div class="flex-1">`)
		if p.Title != "" {
			fmt.Fprintf(w, `<p class="font-semibold">%s</p>`, esc(p.Title))
		}
		if p.Description != "" {
			fmt.Fprintf(w, `<p class="text-sm opacity-90">%s</p>`, esc(p.Description))
		}
		io.WriteString(w, `</div>`)
		if p.Dismissible {
			io.WriteString(w, `<button type="button" aria-label="Dismiss" onclick="this.parentElement.remove()">&times;</button>`)
		}
		if p.ShowIndicator && p.Duration > 0 {
			fmt.Fprintf(w, `<div class="absolute bottom-0 left-0 h-1 bg-current opacity-30" style="animation: toast-progress %dms linear forwards"></div>`, p.Duration)
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
