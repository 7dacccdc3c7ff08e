// Command fractalview opens a window for exploring fractals interactively.
//
// Keys:
//
//	arrows  move the view
//	+ -     zoom in and out
//	[ ]     fewer and more iterations
//	Tab     next fractal
//	R       back to the start view
//	Enter   render again
//	C       toggle the caption
//	S       save the current frame as PNG, with its scene as JSON
//	Esc     quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	fractal "github.com/Superangers/fractal-explorer"
	"github.com/Superangers/fractal-explorer/internal/annotate"
	"github.com/Superangers/fractal-explorer/internal/imageio"
	"github.com/Superangers/fractal-explorer/internal/scene"
	"github.com/Superangers/fractal-explorer/internal/view"
)

func main() {
	var (
		kindName  = flag.String("fractal", "mandelbrot", "fractal to start with")
		size      = flag.Int("size", 600, "window size in pixels")
		iter      = flag.Uint("iter", fractal.DefaultMaxIterations, "starting iteration cap")
		scenePath = flag.String("scene", "", "JSON scene file to start from")
		workers   = flag.Int("workers", 0, "render workers (0 = GOMAXPROCS)")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := startConfig(*scenePath, *kindName, *size, uint32(*iter))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fractalview: %v\n", err)
		os.Exit(1)
	}

	r := fractal.NewRenderer(fractal.WithWorkers(*workers))
	defer r.Close()

	explorer, err := view.NewExplorer(r, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fractalview: %v\n", err)
		os.Exit(1)
	}

	g := &game{explorer: explorer, caption: true}
	ebiten.SetWindowTitle("Fractal Explorer")
	ebiten.SetWindowSize(cfg.Viewport.Width, cfg.Viewport.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "fractalview: %v\n", err)
		os.Exit(1)
	}
}

func startConfig(scenePath, kindName string, size int, iter uint32) (fractal.RenderConfig, error) {
	if scenePath != "" {
		return scene.Load(scenePath)
	}
	kind, err := fractal.ParseKind(kindName)
	if err != nil {
		return fractal.RenderConfig{}, err
	}
	cfg := fractal.NewConfig(kind,
		fractal.WithResolution(size, size),
		fractal.WithMaxIterations(iter),
	)
	return cfg, cfg.Validate()
}

// keyActions maps held keys to navigation. Held keys repeat every frame so
// panning and zooming feel continuous; while one is held the view renders
// drafts at reduced resolution.
var keyActions = []struct {
	keys   []ebiten.Key
	action view.Action
	repeat bool
}{
	{[]ebiten.Key{ebiten.KeyArrowUp}, view.PanUp, true},
	{[]ebiten.Key{ebiten.KeyArrowDown}, view.PanDown, true},
	{[]ebiten.Key{ebiten.KeyArrowLeft}, view.PanLeft, true},
	{[]ebiten.Key{ebiten.KeyArrowRight}, view.PanRight, true},
	{[]ebiten.Key{ebiten.KeyEqual, ebiten.KeyNumpadAdd}, view.ZoomIn, true},
	{[]ebiten.Key{ebiten.KeyMinus, ebiten.KeyNumpadSubtract}, view.ZoomOut, true},
	{[]ebiten.Key{ebiten.KeyBracketRight}, view.MoreIterations, false},
	{[]ebiten.Key{ebiten.KeyBracketLeft}, view.FewerIterations, false},
	{[]ebiten.Key{ebiten.KeyTab}, view.NextFractal, false},
	{[]ebiten.Key{ebiten.KeyR}, view.Reset, false},
}

type game struct {
	explorer *view.Explorer
	caption  bool

	frame   *ebiten.Image
	overlay *image.RGBA
	stale   bool
	err     error
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	held := false
	for _, ka := range keyActions {
		for _, k := range ka.keys {
			pressed := inpututil.IsKeyJustPressed(k)
			if ka.repeat {
				pressed = ebiten.IsKeyPressed(k)
				held = held || pressed
			}
			if pressed && g.explorer.Apply(ka.action) {
				g.stale = true
			}
		}
	}
	g.explorer.SetMoving(held)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		g.explorer.Invalidate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.caption = !g.caption
		g.overlay = nil
		g.stale = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.save()
	}

	if g.stale || g.explorer.Dirty() || g.frame == nil {
		g.refresh()
	}
	return nil
}

// refresh renders the current view if needed and uploads it to the GPU
// texture shown by Draw.
func (g *game) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rgba, err := g.explorer.Frame(ctx)
	g.err = err
	g.stale = false
	if rgba == nil {
		return
	}

	src := rgba
	if g.caption && !g.explorer.Moving() && g.explorer.Image() != nil {
		if g.overlay == nil || g.overlay.Bounds() != rgba.Bounds() {
			g.overlay = image.NewRGBA(rgba.Bounds())
		}
		copy(g.overlay.Pix, rgba.Pix)
		label := annotate.Label(g.explorer.Image().Config(), g.explorer.Image().Elapsed())
		st := annotate.DefaultStyle().Fit(label, g.overlay.Bounds().Dx())
		if err := annotate.Caption(g.overlay, label, st); err != nil {
			fractal.Logger().Debug("caption skipped", "err", err)
		}
		src = g.overlay
	}

	b := src.Bounds()
	if g.frame == nil || g.frame.Bounds().Dx() != b.Dx() || g.frame.Bounds().Dy() != b.Dy() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.frame.WritePixels(src.Pix)
}

// save writes the last full-size frame and its scene next to each other.
// The scene file reopens the same view with -scene.
func (g *game) save() {
	img := g.explorer.Image()
	if img == nil || g.explorer.Moving() {
		return
	}
	base := fmt.Sprintf("fractal-%s", time.Now().Format("20060102-150405"))
	if err := imageio.Save(base+".png", img); err != nil {
		fractal.Logger().Warn("save failed", "path", base+".png", "err", err)
		return
	}
	if err := scene.Save(base+".json", img.Config()); err != nil {
		fractal.Logger().Warn("scene save failed", "path", base+".json", "err", err)
	}
	fractal.Logger().Info("frame saved", "path", base+".png", "scene", base+".json")
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frame != nil {
		// Drafts are smaller than the screen.
		op := &ebiten.DrawImageOptions{}
		fb, sb := g.frame.Bounds(), screen.Bounds()
		if fb.Dx() != sb.Dx() || fb.Dy() != sb.Dy() {
			op.GeoM.Scale(float64(sb.Dx())/float64(fb.Dx()), float64(sb.Dy())/float64(fb.Dy()))
			op.Filter = ebiten.FilterLinear
		}
		screen.DrawImage(g.frame, op)
	}
	if g.err != nil && !errors.Is(g.err, context.DeadlineExceeded) {
		fractal.Logger().Error("render failed", "err", g.err)
		g.err = nil
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.explorer.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
