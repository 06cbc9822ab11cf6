package view

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

// Output formats accepted by Convert.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Convert turns SVG bytes into format. SVG is returned unchanged; PNG and
// PDF require rsvg-convert from librsvg on PATH.
func Convert(svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG, "":
		return svg, nil
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
	case FormatPDF:
		return rsvgConvert(svg, "pdf")
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
