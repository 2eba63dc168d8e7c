// Command ugolnik meshes the polygons of an SVG file.
//
// The first <polygon> is the outer contour and the rest are holes. Lines and
// polylines become constraints and circle centers become extra vertices. The
// result is summarized on stdout and can be written as a PNG, shown inline in
// an iTerm2 terminal, or written as an HTML report with the run's log.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	ugolnik "github.com/adfgl/3Ugolnik-sub000"
	"github.com/adfgl/3Ugolnik-sub000/internal/logger"
	"github.com/adfgl/3Ugolnik-sub000/internal/svgload"
	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("ugolnik", "Constrained Delaunay triangulation and quality meshing of SVG polygons.")

	inputPath  = app.Arg("input", "SVG file to mesh.").Required().ExistingFile()
	configPath = app.Flag("config", "YAML options file. Flags override it.").Short('c').ExistingFile()

	maxArea    = app.Flag("max-area", "Largest allowed triangle area.").Action(given("max-area")).Float64()
	maxEdge    = app.Flag("max-edge", "Longest allowed edge.").Action(given("max-edge")).Float64()
	minAngle   = app.Flag("min-angle", "Smallest allowed angle in degrees.").Action(given("min-angle")).Float64()
	maxSteiner = app.Flag("max-steiner", "Cap on vertices added by refinement.").Action(given("max-steiner")).Int()

	pngPath  = app.Flag("png", "Write the mesh to this PNG file.").String()
	htmlPath = app.Flag("html", "Write an HTML report to this file.").String()
	show     = app.Flag("imgcat", "Show the mesh in the terminal.").Bool()
	width    = app.Flag("width", "Image width in pixels.").Default("800").Int()
	verbose  = app.Flag("verbose", "Log debug output.").Short('v').Bool()
)

// setByUser holds the flags given on the command line. A given flag
// overrides the config file even when it is zero.
var setByUser = map[string]bool{}

func given(name string) kingpin.Action {
	return func(*kingpin.ParseContext) error {
		setByUser[name] = true
		return nil
	}
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := zapcore.InfoLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	log := logger.New(level, os.Stderr)
	defer log.Sync()

	opts, err := options()
	app.FatalIfError(err, "")
	opts.Logger = log.Logger

	in, err := svgload.LoadFile(*inputPath)
	app.FatalIfError(err, "")
	log.Info("loaded input",
		zap.String("path", *inputPath),
		zap.Int("contour", len(in.Contour)),
		zap.Int("holes", len(in.Holes)),
		zap.Int("constraints", len(in.Constraints)),
		zap.Int("points", len(in.Points)))

	result, err := ugolnik.Triangulate(in, opts)
	app.FatalIfError(err, "meshing %s", *inputPath)
	printSummary(os.Stdout, filepath.Base(*inputPath), result.Summary)

	if *pngPath != "" {
		app.FatalIfError(result.DrawPNG(*pngPath, *width), "writing %s", *pngPath)
	}
	if *show {
		app.FatalIfError(showInline(result), "showing mesh")
	}
	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		app.FatalIfError(err, "")
		err = writeReport(f, filepath.Base(*inputPath), result, log.HTML())
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		app.FatalIfError(err, "writing %s", *htmlPath)
	}
}

func options() (ugolnik.Options, error) {
	opts := ugolnik.DefaultOptions()
	if *configPath != "" {
		var err error
		if opts, err = ugolnik.LoadOptionsFile(*configPath); err != nil {
			return opts, err
		}
	}
	if setByUser["max-area"] {
		opts.MaxArea = *maxArea
	}
	if setByUser["max-edge"] {
		opts.MaxEdge = *maxEdge
	}
	if setByUser["min-angle"] {
		opts.MinAngle = *minAngle
	}
	if setByUser["max-steiner"] {
		opts.MaxSteiner = *maxSteiner
	}
	return opts, opts.Validate()
}

func showInline(result *ugolnik.Result) error {
	path := *pngPath
	if path == "" {
		f, err := os.CreateTemp("", "ugolnik-*.png")
		if err != nil {
			return err
		}
		path = f.Name()
		f.Close()
		defer os.Remove(path)
		if err := result.DrawPNG(path, *width); err != nil {
			return err
		}
	}
	return imgcat.CatFile(path, os.Stdout)
}

func printSummary(w io.Writer, name string, s ugolnik.Summary) {
	fmt.Fprintf(w, "%s  %s\n", aurora.Bold(aurora.Cyan(name)), aurora.Gray(12, s.Elapsed))
	fmt.Fprintf(w, "  %-9s %d  %s %d  %s %d\n",
		aurora.Bold("mesh"), s.Vertices,
		aurora.Gray(12, "triangles"), s.Triangles,
		aurora.Gray(12, "edges"), s.Edges)
	row := func(label string, min, max, avg float64) {
		fmt.Fprintf(w, "  %-9s %s %-12.6g %s %-12.6g %s %.6g\n",
			aurora.Bold(label),
			aurora.Gray(12, "min"), min,
			aurora.Gray(12, "max"), max,
			aurora.Gray(12, "avg"), avg)
	}
	row("area", s.MinArea, s.MaxArea, s.AvgArea)
	row("edge", s.MinEdge, s.MaxEdge, s.AvgEdge)
	row("angle", s.MinAngle, s.MaxAngle, s.AvgAngle)
	if s.Steiner > 0 {
		fmt.Fprintf(w, "  %-9s %d\n", aurora.Bold("steiner"), s.Steiner)
	}
	if s.Unresolved > 0 {
		fmt.Fprintln(w, aurora.Yellow(fmt.Sprintf("  quality target not met: %d unresolved, %d abandoned",
			s.Unresolved, s.Abandoned)))
	}
	if s.Triangles > 0 && s.MinAngle < 20 {
		fmt.Fprintln(w, aurora.Yellow("  smallest angle is under 20 degrees"))
	}
}
