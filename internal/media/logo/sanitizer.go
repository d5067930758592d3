// Package logo is the single entry point for untrusted logo uploads. It gates
// the declared media type, verifies raster signatures, strips active SVG
// content and re-encodes raster pixels, and always answers with a Result.
package logo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/media/magic"
	"github.com/cristianadrielbraun/qrstyler/internal/media/raster"
	"github.com/cristianadrielbraun/qrstyler/internal/media/svg"
	"github.com/cristianadrielbraun/qrstyler/internal/metrics"
)

const (
	TypeSVG = "image/svg+xml"

	// DefaultMaxBytes is the upload ceiling, 2 MiB.
	DefaultMaxBytes int64 = 2 << 20

	op = "logo.sanitize"
)

// User-facing rejection messages.
const (
	MsgUnsupportedType = "Unsupported image type"
	MsgContentMismatch = "File content does not match its declared type"
	MsgMissingSVGRoot  = "Invalid SVG: missing <svg> element"
	MsgImageDecode     = "Image failed to load"
	MsgInternal        = "The image could not be processed"
)

// File is an uploaded file as described by the client. Name, MediaType and
// Size are all attacker-controlled.
type File struct {
	Name      string
	MediaType string
	Size      int64
	Open      func() (io.ReadCloser, error)
}

// Result is the outcome of one sanitization call. When Sanitized is true
// DataURL holds a self-contained data: URL and Error is empty; otherwise
// DataURL is empty and Error explains the rejection.
type Result struct {
	DataURL   string      `json:"dataUrl"`
	Sanitized bool        `json:"sanitized"`
	Error     string      `json:"error,omitempty"`
	Kind      apperr.Kind `json:"kind,omitempty"`
}

type Options struct {
	MaxBytes int64
	Limits   raster.Limits
}

type Sanitizer struct {
	log       zerolog.Logger
	metrics   *metrics.Metrics
	reencoder *raster.Reencoder
	maxBytes  int64
}

func NewSanitizer(log zerolog.Logger, m *metrics.Metrics, opts Options) *Sanitizer {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	return &Sanitizer{
		log:       log.With().Str("component", "logo_sanitizer").Logger(),
		metrics:   m,
		reencoder: raster.NewReencoder(opts.Limits),
		maxBytes:  opts.MaxBytes,
	}
}

// MaxBytes reports the size ceiling the sanitizer enforces.
func (s *Sanitizer) MaxBytes() int64 {
	return s.maxBytes
}

// Sanitize never returns an error for bad input; every failure, including a
// recovered panic, is reported through Result.
func (s *Sanitizer) Sanitize(ctx context.Context, f File) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("panic", r).
				Str("media_type", f.MediaType).
				Str("name", f.Name).
				Msg("logo sanitization panicked")
			res = reject(apperr.New(apperr.KindInternal, op, MsgInternal))
		}
		s.metrics.ObserveSanitize(f.MediaType, res.Sanitized)
	}()

	dataURL, err := s.sanitize(ctx, f)
	if err != nil {
		s.log.Warn().
			Str("media_type", f.MediaType).
			Str("name", f.Name).
			Str("kind", string(apperr.KindOf(err))).
			Err(err).
			Msg("logo rejected")
		return reject(err)
	}

	s.log.Info().
		Str("media_type", f.MediaType).
		Str("name", f.Name).
		Int("data_url_len", len(dataURL)).
		Msg("logo accepted")
	return Result{DataURL: dataURL, Sanitized: true}
}

func (s *Sanitizer) sanitize(ctx context.Context, f File) (string, error) {
	isSVG := f.MediaType == TypeSVG
	if !isSVG && !magic.Supported(f.MediaType) {
		return "", apperr.New(apperr.KindUnsupportedType, op, MsgUnsupportedType)
	}
	if f.Size > s.maxBytes {
		return "", s.tooLarge()
	}
	if f.Open == nil {
		return "", apperr.New(apperr.KindInternal, op, MsgInternal)
	}

	rc, err := f.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, op, MsgInternal, fmt.Errorf("open upload: %w", err))
	}
	defer rc.Close()

	// The declared size is not trusted; the reader is capped one byte past
	// the ceiling so an oversized body is detected rather than truncated.
	body := io.LimitReader(rc, s.maxBytes+1)

	if isSVG {
		return s.sanitizeSVG(body)
	}
	return s.sanitizeRaster(ctx, body, f.MediaType)
}

func (s *Sanitizer) sanitizeSVG(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, op, MsgInternal, fmt.Errorf("read svg: %w", err))
	}
	if int64(len(data)) > s.maxBytes {
		return "", s.tooLarge()
	}

	text := string(data)
	if !strings.Contains(text, "<svg") {
		return "", apperr.New(apperr.KindParse, op, MsgMissingSVGRoot)
	}

	clean, err := svg.Sanitize(text)
	if err != nil {
		return "", err
	}
	return "data:" + TypeSVG + ";base64," + base64.StdEncoding.EncodeToString([]byte(clean)), nil
}

func (s *Sanitizer) sanitizeRaster(ctx context.Context, body io.Reader, mediaType string) (string, error) {
	head := make([]byte, magic.HeadSize)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", apperr.Wrap(apperr.KindInternal, op, MsgInternal, fmt.Errorf("read header: %w", err))
	}
	head = head[:n]

	if !magic.Verify(head, mediaType) {
		return "", apperr.New(apperr.KindContentMismatch, op, MsgContentMismatch)
	}

	rest, err := io.ReadAll(body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, op, MsgInternal, fmt.Errorf("read image: %w", err))
	}
	if int64(n+len(rest)) > s.maxBytes {
		return "", s.tooLarge()
	}

	encoded, err := s.reencoder.Reencode(ctx, io.MultiReader(bytes.NewReader(head), bytes.NewReader(rest)))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", apperr.Wrap(apperr.KindInternal, op, MsgInternal, ctxErr)
		}
		return "", apperr.Wrap(apperr.KindImageDecode, op, MsgImageDecode, err)
	}
	return "data:" + magic.TypePNG + ";base64," + base64.StdEncoding.EncodeToString(encoded), nil
}

func (s *Sanitizer) tooLarge() error {
	limit := fmt.Sprintf("%d bytes", s.maxBytes)
	if s.maxBytes%(1<<20) == 0 {
		limit = fmt.Sprintf("%d MiB", s.maxBytes>>20)
	}
	return apperr.New(apperr.KindTooLarge, op, "File exceeds the "+limit+" limit")
}

func reject(err error) Result {
	return Result{
		Error: apperr.Message(err, MsgInternal),
		Kind:  apperr.KindOf(err),
	}
}
