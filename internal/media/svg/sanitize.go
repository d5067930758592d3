// Package svg strips active content from untrusted SVG documents while
// keeping every other element and attribute intact.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
)

// ErrInvalidDocument is returned for markup that is not a well-formed SVG
// document.
var ErrInvalidDocument = apperr.New(apperr.KindParse, "svg.sanitize", "Invalid SVG document")

var strippedElements = []string{"script", "foreignObject"}

// Sanitize parses markup and returns it re-serialized without script and
// foreignObject elements, event handler attributes, or javascript: links.
func Sanitize(markup string) (string, error) {
	if err := checkWellFormed(markup); err != nil {
		return "", apperr.Wrap(apperr.KindParse, "svg.sanitize", ErrInvalidDocument.Message, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return "", apperr.Wrap(apperr.KindParse, "svg.sanitize", ErrInvalidDocument.Message, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "svg" || len(doc.ChildElements()) != 1 {
		return "", ErrInvalidDocument
	}

	clean(root)

	out, err := doc.WriteToString()
	if err != nil {
		return "", apperr.Wrap(apperr.KindParse, "svg.sanitize", "serialize SVG document", err)
	}
	return out, nil
}

// checkWellFormed walks every token in strict mode so unclosed or mismatched
// tags are rejected before the tree is built. The decoder accepts several
// top-level elements, so a document must have exactly one root and no text
// outside it.
func checkWellFormed(markup string) error {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return errors.New("multiple root elements")
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimFunc(t, isBlank)) > 0 {
				return errors.New("text outside root element")
			}
		}
	}
	if roots == 0 {
		return errors.New("no root element")
	}
	return nil
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

func clean(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if isStripped(child) {
			el.RemoveChild(child)
			continue
		}
		clean(child)
	}

	kept := make([]etree.Attr, 0, len(el.Attr))
	for _, attr := range el.Attr {
		if isEventHandler(attr) || isScriptLink(attr) {
			continue
		}
		kept = append(kept, attr)
	}
	el.Attr = kept
}

func isStripped(el *etree.Element) bool {
	for _, name := range strippedElements {
		if strings.EqualFold(el.Tag, name) {
			return true
		}
	}
	return false
}

func isEventHandler(attr etree.Attr) bool {
	if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
		return false
	}
	return strings.HasPrefix(strings.ToLower(attr.Key), "on")
}

func isScriptLink(attr etree.Attr) bool {
	if !strings.EqualFold(attr.Key, "href") {
		return false
	}
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, attr.Value)
	return strings.HasPrefix(strings.ToLower(compact), "javascript:")
}
