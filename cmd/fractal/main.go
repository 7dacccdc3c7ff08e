// Command fractal renders one escape-time fractal to an image file.
//
// Usage:
//
//	fractal [flags]
//
// Examples:
//
//	fractal -o mandelbrot.png
//	fractal -fractal julia -cr -0.8 -ci 0.156 -scale 3.2 -iter 300 -o julia.png
//	fractal -scene view.json -watch -caption -o view.png
//
// With -watch the scene file is re-rendered every time it is saved, until
// the command is interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	fractal "github.com/Superangers/fractal-explorer"
	"github.com/Superangers/fractal-explorer/internal/annotate"
	"github.com/Superangers/fractal-explorer/internal/imageio"
	"github.com/Superangers/fractal-explorer/internal/scene"
	"github.com/Superangers/fractal-explorer/internal/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "fractal: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	fractal   string
	x, y      float64
	scale     float64
	width     int
	height    int
	iter      uint
	cr, ci    float64
	workers   int
	scenePath string
	output    string
	preview   int
	caption   bool
	watch     bool
	profile   string
	list      bool
	verbose   bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	def := fractal.DefaultConfig()
	o := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("fractal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.fractal, "fractal", def.Kind.String(), "fractal to render: "+strings.Join(fractal.Names(), ", "))
	fs.Float64Var(&o.x, "x", real(def.Viewport.Center), "real part of the view center")
	fs.Float64Var(&o.y, "y", imag(def.Viewport.Center), "imaginary part of the view center")
	fs.Float64Var(&o.scale, "scale", def.Viewport.Scale, "width of the complex plane covered by the image")
	fs.IntVar(&o.width, "width", def.Viewport.Width, "image width in pixels")
	fs.IntVar(&o.height, "height", def.Viewport.Height, "image height in pixels")
	fs.UintVar(&o.iter, "iter", uint(def.MaxIterations), "maximum iterations per pixel")
	fs.Float64Var(&o.cr, "cr", 0, "real part of the Julia constant")
	fs.Float64Var(&o.ci, "ci", 0, "imaginary part of the Julia constant")
	fs.IntVar(&o.workers, "workers", 0, "render workers (0 = GOMAXPROCS)")
	fs.StringVar(&o.scenePath, "scene", "", "JSON scene file; other flags override its fields")
	fs.StringVar(&o.output, "o", "fractal.png", "output file (.png, .jpg, .bmp, .tiff)")
	fs.IntVar(&o.preview, "preview", 1, "downscale the output by this factor")
	fs.BoolVar(&o.caption, "caption", false, "draw the render parameters onto the image")
	fs.BoolVar(&o.watch, "watch", false, "re-render whenever the -scene file changes")
	fs.StringVar(&o.profile, "profile", "", "write a profile: cpu, mem, or trace")
	fs.BoolVar(&o.list, "list", false, "list the available fractals and exit")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.watch && o.scenePath == "" {
		return nil, errors.New("-watch needs -scene")
	}
	if o.preview < 1 {
		return nil, fmt.Errorf("-preview must be at least 1, got %d", o.preview)
	}
	if o.iter > uint(^uint32(0)) {
		return nil, fmt.Errorf("-iter %d out of range", o.iter)
	}
	return o, nil
}

// config builds the render configuration: the scene file if one was given,
// otherwise the defaults for the chosen fractal, with every flag the user
// set applied on top. The result is validated only once the flags are in,
// so a flag can repair a scene field.
func (o *options) config() (fractal.RenderConfig, error) {
	var cfg fractal.RenderConfig
	if o.scenePath != "" {
		loaded, err := scene.Read(o.scenePath)
		if err != nil {
			return fractal.RenderConfig{}, err
		}
		cfg = loaded
		if o.set["fractal"] {
			kind, err := fractal.ParseKind(o.fractal)
			if err != nil {
				return fractal.RenderConfig{}, err
			}
			cfg.Kind = kind
		}
	} else {
		kind, err := fractal.ParseKind(o.fractal)
		if err != nil {
			return fractal.RenderConfig{}, err
		}
		cfg = fractal.NewConfig(kind)
	}

	if o.set["x"] || o.set["y"] {
		c := cfg.Viewport.Center
		if o.set["x"] {
			c = complex(o.x, imag(c))
		}
		if o.set["y"] {
			c = complex(real(c), o.y)
		}
		cfg.Viewport.Center = c
	}
	if o.set["scale"] {
		cfg.Viewport.Scale = o.scale
	}
	if o.set["width"] {
		cfg.Viewport.Width = o.width
	}
	if o.set["height"] {
		cfg.Viewport.Height = o.height
	}
	if o.set["iter"] {
		cfg.MaxIterations = uint32(o.iter)
	}
	if o.set["cr"] || o.set["ci"] {
		var c complex128
		if cfg.JuliaConstant != nil {
			c = *cfg.JuliaConstant
		}
		if o.set["cr"] {
			c = complex(o.cr, imag(c))
		}
		if o.set["ci"] {
			c = complex(real(c), o.ci)
		}
		cfg.JuliaConstant = &c
	}

	if err := cfg.Validate(); err != nil {
		return fractal.RenderConfig{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	fractal.SetLogger(log)
	defer fractal.SetLogger(nil)

	p := message.NewPrinter(language.English)

	if o.list {
		return listFractals(p, stdout)
	}

	if o.profile != "" {
		mode, err := profileMode(o.profile)
		if err != nil {
			return err
		}
		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	r := fractal.NewRenderer(fractal.WithWorkers(o.workers))
	defer r.Close()

	if err := renderOnce(ctx, r, o, p, stdout); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	w, err := watch.New(o.scenePath, watch.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	log.Info("watching scene", "path", w.Path())
	return w.Run(ctx, func() {
		if err := renderOnce(ctx, r, o, p, stdout); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("scene reload failed", "path", o.scenePath, "err", err)
		}
	})
}

func renderOnce(ctx context.Context, r *fractal.Renderer, o *options, p *message.Printer, stdout io.Writer) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}

	img, err := r.RenderContext(ctx, cfg)
	if err != nil {
		return err
	}

	var out image.Image = img
	if o.preview > 1 || o.caption {
		rgba := img.ToRGBA()
		if o.preview > 1 {
			side := max(1, max(cfg.Viewport.Width, cfg.Viewport.Height)/o.preview)
			if rgba, err = imageio.Fit(rgba, side, imageio.Smooth); err != nil {
				return err
			}
		}
		if o.caption {
			label := annotate.Label(cfg, img.Elapsed())
			st := annotate.DefaultStyle().Fit(label, rgba.Bounds().Dx())
			if err := annotate.Caption(rgba, label, st); err != nil {
				fractal.Logger().Warn("caption skipped", "err", err)
			}
		}
		out = rgba
	}

	if err := imageio.Save(o.output, out); err != nil {
		return err
	}

	b := out.Bounds()
	_, err = p.Fprintf(stdout, "%s: %d pixels (%d×%d) in %v -> %s\n",
		cfg.Kind, b.Dx()*b.Dy(), b.Dx(), b.Dy(), img.Elapsed().Round(time.Millisecond), o.output)
	fractal.Logger().Info("image written", "path", o.output, "fractal", cfg.Kind, "elapsed", img.Elapsed())
	return err
}

func listFractals(p *message.Printer, w io.Writer) error {
	for _, name := range fractal.Names() {
		d, err := fractal.Lookup(name)
		if err != nil {
			return err
		}
		extra := ""
		if d.NeedsConstant {
			extra = ", needs -cr/-ci"
		}
		if _, err := p.Fprintf(w, "%-12s %s (%v, center %v%s)\n", d.Name, d.Title(), d.ColorSpace, d.Center, extra); err != nil {
			return err
		}
	}
	return nil
}

func profileMode(name string) (func(*profile.Profile), error) {
	switch strings.ToLower(name) {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile %q (want cpu, mem, or trace)", name)
	}
}
