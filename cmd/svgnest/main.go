// Command svgnest nests irregular 2D parts onto a rectangular sheet and
// writes the resulting layout in various formats.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/maruel/natural"

	"github.com/soumyadeepsahu/SVGnest/internal/engine"
	"github.com/soumyadeepsahu/SVGnest/internal/export"
	"github.com/soumyadeepsahu/SVGnest/internal/importer"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
	"github.com/soumyadeepsahu/SVGnest/internal/nest"
	"github.com/soumyadeepsahu/SVGnest/internal/project"
)

type options struct {
	input       string
	projectPath string
	saveProject bool
	tolerance   float64

	sheetWidth  float64
	sheetHeight float64
	units       string

	population  int
	generations int
	rotations   int
	mutation    int
	spacing     float64
	seed        int64
	quantity    int

	maxQuantity bool
	maxAttempts int

	outSVG    string
	outJSON   string
	outPDF    string
	outPNG    string
	outLabels string
	outReport string
	pngWidth  int
}

func flagArgs() options {
	var o options

	flag.StringVar(&o.input, "input", "", "input file or directory (SVG, DXF, CSV, XLSX)")
	flag.StringVar(&o.projectPath, "project", "", "load parts and settings from a project file")
	flag.BoolVar(&o.saveProject, "save", false, "save parts, settings, and result to the default project file")
	flag.Float64Var(&o.tolerance, "tolerance", 2.0, "curve flattening tolerance for SVG input")

	flag.Float64Var(&o.sheetWidth, "width", 1000, "sheet width")
	flag.Float64Var(&o.sheetHeight, "height", 500, "sheet height")
	flag.StringVar(&o.units, "units", "mm", "sheet units (display only)")

	defaults := engine.DefaultConfig()
	flag.IntVar(&o.population, "pop", defaults.PopulationSize, "population size")
	flag.IntVar(&o.generations, "gens", defaults.MaxGenerations, "maximum generations")
	flag.IntVar(&o.rotations, "rot", defaults.RotationCount, "number of rotation steps")
	flag.IntVar(&o.mutation, "mutation", defaults.MutationRate, "mutation rate (0-100)")
	flag.Float64Var(&o.spacing, "spacing", defaults.Spacing, "spacing between parts")
	flag.Int64Var(&o.seed, "seed", nest.DefaultSeed, "random seed")
	flag.IntVar(&o.quantity, "qty", 0, "override quantity for every imported part")

	flag.BoolVar(&o.maxQuantity, "max-quantity", false, "find the maximum quantity of the first part that fits")
	flag.IntVar(&o.maxAttempts, "max-attempts", 5, "nesting attempts in max-quantity mode")

	flag.StringVar(&o.outSVG, "out", "", "write layout SVG to this path")
	flag.StringVar(&o.outJSON, "json", "", "write result JSON to this path")
	flag.StringVar(&o.outPDF, "pdf", "", "write layout PDF to this path")
	flag.StringVar(&o.outPNG, "png", "", "write layout PNG to this path")
	flag.StringVar(&o.outLabels, "labels", "", "write QR part labels PDF to this path")
	flag.StringVar(&o.outReport, "report", "", "write placement report XLSX to this path")
	flag.IntVar(&o.pngWidth, "png-width", export.DefaultImageWidth, "pixel width of the PNG export")
	flag.Parse()

	return o
}

func main() {
	o := flagArgs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parts, err := loadParts(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(parts) == 0 {
		fmt.Fprintln(os.Stderr, "error: no parts to nest (use -input or -project)")
		os.Exit(1)
	}

	if o.quantity > 0 {
		for i := range parts {
			parts[i].Quantity = o.quantity
		}
	}

	config := engine.Config{
		PopulationSize: o.population,
		MutationRate:   o.mutation,
		RotationCount:  o.rotations,
		Spacing:        o.spacing,
		MaxGenerations: o.generations,
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	nester := nest.New()
	nester.Config = config
	nester.Seed = o.seed

	if o.maxQuantity {
		runMaxQuantity(ctx, nester, parts[0], o)
		return
	}

	nester.SetParts(parts)
	nester.SetContainer(model.NewContainerSheet(o.sheetWidth, o.sheetHeight, o.units))

	result, err := nester.Nest(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printSummary(result, o)
	container := model.NewContainerSheet(o.sheetWidth, o.sheetHeight, o.units)
	writeOutputs(result, container, parts, o)

	if o.saveProject {
		p := project.New("svgnest")
		p.Parts = parts
		p.Container = container
		p.Config = config
		if result.Placed() {
			p.Result = &result
		}
		path := project.DefaultProjectPath()
		if err := project.Save(path, p); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Project saved to %s\n", path)
	}
}

// loadParts gathers parts from the project file and/or the input path.
func loadParts(o options) ([]model.Part, error) {
	var parts []model.Part

	if o.projectPath != "" {
		p, err := project.Load(o.projectPath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p.Parts...)
	}

	if o.input != "" {
		imported, err := importPath(o.input, o.tolerance)
		if err != nil {
			return nil, err
		}
		parts = append(parts, imported...)
	}

	return parts, nil
}

// importPath imports parts from a single file or every supported file in a
// directory, in natural filename order. The tolerance applies to SVG curve
// flattening.
func importPath(path string, tolerance float64) ([]model.Part, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		files = files[:0]
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := importerFor(e.Name(), tolerance); ok {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
		sort.Sort(natural.StringSlice(files))
		if len(files) == 0 {
			return nil, fmt.Errorf("no importable files in %s", path)
		}
	}

	var parts []model.Part
	for _, f := range files {
		imp, ok := importerFor(f, tolerance)
		if !ok {
			return nil, fmt.Errorf("unsupported file type: %s", f)
		}
		result := imp(f)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", filepath.Base(f), w)
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("%s: %s", filepath.Base(f), strings.Join(result.Errors, "; "))
		}
		parts = append(parts, result.Parts...)
	}
	return parts, nil
}

func importerFor(path string, tolerance float64) (func(string) importer.ImportResult, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return func(p string) importer.ImportResult {
			return importer.ImportSVGWithTolerance(p, tolerance)
		}, true
	case ".dxf":
		return importer.ImportDXF, true
	case ".csv", ".txt":
		return importer.ImportCSV, true
	case ".xlsx":
		return importer.ImportExcel, true
	default:
		return nil, false
	}
}

func runMaxQuantity(ctx context.Context, nester *nest.Nester, part model.Part, o options) {
	fmt.Printf("Finding maximum quantity of %q on a %.0f x %.0f %s sheet...\n",
		part.Label, o.sheetWidth, o.sheetHeight, o.units)

	r, err := nester.NestMaxQuantity(ctx, part.Outline, o.sheetWidth, o.sheetHeight, o.maxAttempts, o.units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Estimated maximum: %d\n", r.EstimatedMax)
	fmt.Printf("Attempted quantity: %d\n", r.AttemptedQuantity)
	fmt.Printf("Placed: %d parts at %.1f%% efficiency\n", r.ActualQuantity, r.Efficiency)

	writeOutputs(r.Result, r.Sheet, []model.Part{part}, o)
}

func printSummary(result model.NestResult, o options) {
	fmt.Printf("Sheet: %.0f x %.0f %s\n", o.sheetWidth, o.sheetHeight, o.units)
	fmt.Println(result.Message)
	if result.Placed() {
		fmt.Printf("Utilization: %.1f%%\n", result.Utilization)
		fmt.Printf("Bounding box area: %.0f\n", result.Fitness)
	}
}

func writeOutputs(result model.NestResult, container model.Container, parts []model.Part, o options) {
	outputs := []struct {
		path string
		kind string
		run  func(string) error
	}{
		{o.outSVG, "SVG", func(p string) error { return export.ExportSVG(p, result, container) }},
		{o.outJSON, "JSON", func(p string) error { return export.ExportJSON(p, result, container) }},
		{o.outPDF, "PDF", func(p string) error { return export.ExportPDF(p, result, container, parts) }},
		{o.outPNG, "PNG", func(p string) error { return export.ExportPNG(p, result, container, o.pngWidth) }},
		{o.outLabels, "labels", func(p string) error { return export.ExportLabels(p, result, parts) }},
		{o.outReport, "report", func(p string) error { return export.ExportReport(p, result, container, parts) }},
	}

	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := out.run(out.path); err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot write %s: %v\n", out.kind, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s to %s\n", out.kind, out.path)
	}
}
