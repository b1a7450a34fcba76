package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// Format is a raster or print format a lineage SVG can be converted to.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Converter is the librsvg command line tool used for conversions.
const Converter = "rsvg-convert"

var (
	// ErrNoConverter is returned when rsvg-convert is not on PATH.
	ErrNoConverter = errors.New(Converter + " not found")

	// ErrEmptyDiagram is returned for an empty SVG document.
	ErrEmptyDiagram = errors.New("empty diagram")
)

// Convert turns an SVG lineage diagram into format. Scale magnifies PNG
// output and is ignored for PDF; values <= 0 mean 1. The conversion is
// killed when ctx ends.
func Convert(ctx context.Context, svg []byte, format Format, scale float64) ([]byte, error) {
	var args []string
	switch format {
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		args = []string{"-f", "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64)}
	case FormatPDF:
		args = []string{"-f", "pdf"}
	default:
		return nil, fmt.Errorf("unsupported diagram format %q", format)
	}
	if len(bytes.TrimSpace(svg)) == 0 {
		return nil, ErrEmptyDiagram
	}

	path, err := exec.LookPath(Converter)
	if err != nil {
		return nil, fmt.Errorf("%s export: %w; install librsvg:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format, ErrNoConverter)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %v: %s", Converter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}

// ToPNG converts an SVG diagram to PNG at the given scale.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return Convert(ctx, svg, FormatPNG, scale)
}

// ToPDF converts an SVG diagram to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return Convert(ctx, svg, FormatPDF, 0)
}
