// Command tileworkdemo renders a demo scene with the tilework band renderer.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/tilework"
	"github.com/gogpu/tilework/threadpool"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "demo.png", "output file")
		workers = flag.Int("workers", 0, "workers per flush including the caller (0 = GOMAXPROCS)")
		threads = flag.Int("threads", 0, "thread pool ceiling (0 = workers-1)")
		band    = flag.Int("band", tilework.DefaultBandHeight, "band height in rows")
		scale   = flag.Float64("scale", 1, "output scale factor")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		tilework.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	dst, err := tilework.NewSurface(*width, *height, tilework.FormatPRGB32)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}

	opts := []tilework.Option{tilework.WithBandHeight(*band)}
	if *workers > 0 {
		opts = append(opts, tilework.WithWorkerCount(*workers))
	}
	if *threads > 0 {
		pool := threadpool.New(threadpool.Config{MaxThreads: *threads, Logger: tilework.Logger()})
		defer pool.Close()
		opts = append(opts, tilework.WithThreadPool(pool))
	}

	r, err := tilework.NewRenderer(dst, opts...)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Close()

	if err := drawScene(r, *width, *height); err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	res, err := r.Flush()
	if err != nil {
		log.Fatalf("Flush failed: %v", err)
	}
	if err := res.Err(); err != nil {
		log.Printf("Warning: %v", err)
	}

	if err := save(dst, *output, *scale); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d, %d workers, %d jobs, %d commands, %d/%d bands written)\n",
		*output, *width, *height, res.Workers, res.Jobs, res.Commands, len(res.DirtyBands), res.Bands)
}

func drawScene(r *tilework.Renderer, w, h int) error {
	// Banded background
	const steps = 24
	for i := range steps {
		t := float64(i) / steps
		y0 := h * i / steps
		y1 := h * (i + 1) / steps
		if err := r.FillRect(0, y0, w, y1-y0, tilework.RGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2)); err != nil {
			return err
		}
	}

	// Overlapping translucent circles
	circles := []struct {
		x, y float64
		c    tilework.RGBA
	}{
		{150, 150, tilework.RGBAf(1, 0.3, 0.3, 0.8)},
		{200, 150, tilework.RGBAf(0.3, 1, 0.3, 0.8)},
		{175, 200, tilework.RGBAf(0.3, 0.3, 1, 0.8)},
	}
	for _, c := range circles {
		p := tilework.NewPath()
		p.Circle(c.x, c.y, 60)
		if err := r.FillPath(p, c.c); err != nil {
			return err
		}
	}

	p := tilework.NewPath()
	p.RoundedRectangle(350, 100, 120, 80, 15)
	if err := r.FillPath(p, tilework.RGB(1, 0.8, 0)); err != nil {
		return err
	}

	// Star
	star := tilework.NewPath()
	for i := range 10 {
		radius := 70.0
		if i%2 == 1 {
			radius = 30
		}
		a := float64(i)*math.Pi/5 - math.Pi/2
		x, y := 620+radius*math.Cos(a), 150+radius*math.Sin(a)
		if i == 0 {
			star.MoveTo(x, y)
		} else {
			star.LineTo(x, y)
		}
	}
	star.Close()
	if err := r.FillPath(star, tilework.Hex("#ffd700")); err != nil {
		return err
	}

	// Pie slices
	colors := []string{"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4"}
	start := 0.0
	for i, hex := range colors {
		end := start + 2*math.Pi*float64(i+1)/15
		slice := tilework.NewPath()
		slice.MoveTo(200, 420)
		slice.Arc(200, 420, 110, start, end)
		slice.Close()
		if err := r.FillPath(slice, tilework.Hex(hex)); err != nil {
			return err
		}
		start = end
	}

	// Text
	for i, size := range []float64{18, 28, 44} {
		y := 360 + float64(i)*60
		if err := r.FillText("tilework bands", 380, y, size, tilework.White); err != nil {
			return err
		}
	}
	return nil
}

func save(s *tilework.Surface, path string, scale float64) error {
	if scale == 1 || scale <= 0 {
		return s.SavePNG(path)
	}

	src := s.ToImage()
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		max(1, int(float64(b.Dx())*scale)),
		max(1, int(float64(b.Dy())*scale))))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
