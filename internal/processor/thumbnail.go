package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
)

// halfBlock draws two vertical pixels per cell: foreground is the upper one
const halfBlock = "▀"

// HalfBlockThumbnailer renders album art as rows of colored half-block cells
type HalfBlockThumbnailer struct {
	logger   *zap.Logger
	renderer *lipgloss.Renderer
}

// NewHalfBlockThumbnailer creates a thumbnailer emitting 24-bit color.
// The renderer is detached from stdout so the output does not depend on
// what the TUI's terminal reports.
func NewHalfBlockThumbnailer(logger *zap.Logger) *HalfBlockThumbnailer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return &HalfBlockThumbnailer{logger: logger, renderer: r}
}

// Thumbnail decodes imageData and renders it as width x height cells
func (p *HalfBlockThumbnailer) Thumbnail(ctx context.Context, imageData []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid thumbnail size: %dx%d", width, height)
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return "", fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Cover-crop to the cell grid, two pixel rows per cell row
	thumb := imaging.Fill(img, width, height*2, imaging.Center, imaging.Lanczos)

	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			upper := thumb.NRGBAAt(x, y*2)
			lower := thumb.NRGBAAt(x, y*2+1)
			b.WriteString(p.renderer.NewStyle().
				Foreground(hexColor(upper)).
				Background(hexColor(lower)).
				Render(halfBlock))
		}
		rows[y] = b.String()
	}

	p.logger.Debug("Thumbnail rendered", zap.Int("w", width), zap.Int("h", height))
	return strings.Join(rows, "\n"), nil
}

func hexColor(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
