// Package annotate draws a caption strip describing a render onto its image.
package annotate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	fractal "github.com/Superangers/fractal-explorer"
)

// ErrNoRoom is returned when the destination is too small to hold a caption.
var ErrNoRoom = errors.New("annotate: image too small for caption")

// Style controls how a caption is drawn.
type Style struct {
	// Size is the font size in points at 72 DPI.
	Size float64
	// Padding is the space in pixels around the text inside the strip.
	Padding int
	// Text is the text color.
	Text color.Color
	// Background is drawn over the image behind the text.
	Background color.Color
}

// DefaultStyle returns white 12pt text on a translucent black strip.
func DefaultStyle() Style {
	return Style{
		Size:       12,
		Padding:    4,
		Text:       color.White,
		Background: color.NRGBA{A: 160},
	}
}

var (
	monoOnce sync.Once
	monoFont *opentype.Font
	monoErr  error
)

func mono() (*opentype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = opentype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

// Caption draws text along the bottom edge of dst. Multi-line text is
// stacked upward from the bottom.
func Caption(dst draw.Image, text string, st Style) error {
	if text == "" {
		return nil
	}

	f, err := mono()
	if err != nil {
		return fmt.Errorf("annotate: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    st.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("annotate: create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	lines := strings.Split(text, "\n")
	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	stripHeight := lineHeight*len(lines) + 2*st.Padding

	b := dst.Bounds()
	if stripHeight > b.Dy() || 2*st.Padding >= b.Dx() {
		return ErrNoRoom
	}

	strip := image.Rect(b.Min.X, b.Max.Y-stripHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, strip, image.NewUniform(st.Background), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(st.Text),
		Face: face,
	}
	y := strip.Min.Y + st.Padding + m.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(b.Min.X+st.Padding, y)
		d.DrawString(line)
		y += lineHeight
	}
	return nil
}

// minFitSize is the smallest font size Fit shrinks to.
const minFitSize = 6

// Fit returns st with the font size reduced so the widest line of text fits
// a strip width pixels wide. A style that already fits is returned as is.
func (st Style) Fit(text string, width int) Style {
	room := width - 2*st.Padding
	w, err := Measure(text, st.Size)
	if err != nil || room <= 0 || w <= room {
		return st
	}
	st.Size = max(minFitSize, st.Size*float64(room)/float64(w))
	return st
}

// Measure returns the pixel width of the widest line of text at size.
func Measure(text string, size float64) (int, error) {
	f, err := mono()
	if err != nil {
		return 0, fmt.Errorf("annotate: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return 0, fmt.Errorf("annotate: create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	var widest fixed.Int26_6
	for _, line := range strings.Split(text, "\n") {
		widest = max(widest, font.MeasureString(face, line))
	}
	return widest.Ceil(), nil
}

// Label formats the parameters of a render as a one-line caption.
func Label(cfg fractal.RenderConfig, elapsed time.Duration) string {
	name := cfg.Kind.String()
	if d, err := fractal.Describe(cfg.Kind); err == nil {
		name = d.Title()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  center %.6g%+.6gi  scale %.4g  iter %d",
		name,
		real(cfg.Viewport.Center), imag(cfg.Viewport.Center),
		cfg.Viewport.Scale, cfg.MaxIterations)
	if cfg.Kind == fractal.Julia && cfg.JuliaConstant != nil {
		c := *cfg.JuliaConstant
		fmt.Fprintf(&sb, "  c %.4g%+.4gi", real(c), imag(c))
	}
	if elapsed > 0 {
		fmt.Fprintf(&sb, "  %v", elapsed.Round(time.Millisecond))
	}
	return sb.String()
}
