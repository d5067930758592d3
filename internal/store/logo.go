package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianadrielbraun/qrstyler/internal/media/raster"
	"github.com/cristianadrielbraun/qrstyler/internal/media/svg"
)

const (
	pngLogoPrefix = "data:image/png;base64,"
	svgLogoPrefix = "data:image/svg+xml;base64,"
)

// resanitizeLogo runs a logo read back from the KV through the upload
// sanitizers. The KV contents are not trusted.
func resanitizeLogo(ctx context.Context, dataURL string) (string, error) {
	switch {
	case strings.HasPrefix(dataURL, svgLogoPrefix):
		raw, err := base64.StdEncoding.DecodeString(dataURL[len(svgLogoPrefix):])
		if err != nil {
			return "", fmt.Errorf("decode svg logo: %w", err)
		}
		clean, err := svg.Sanitize(string(raw))
		if err != nil {
			return "", fmt.Errorf("sanitize svg logo: %w", err)
		}
		return svgLogoPrefix + base64.StdEncoding.EncodeToString([]byte(clean)), nil

	case strings.HasPrefix(dataURL, pngLogoPrefix):
		raw, err := base64.StdEncoding.DecodeString(dataURL[len(pngLogoPrefix):])
		if err != nil {
			return "", fmt.Errorf("decode png logo: %w", err)
		}
		encoded, err := raster.NewReencoder(raster.DefaultLimits()).Reencode(ctx, bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("reencode png logo: %w", err)
		}
		return pngLogoPrefix + base64.StdEncoding.EncodeToString(encoded), nil
	}
	return "", errors.New("unsupported logo data URL")
}
