package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wbrown/img2uni"
	"github.com/wbrown/img2uni/dnn"
	"github.com/wbrown/img2uni/glyph"
)

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file (required)")
	outputFile := flag.String("output", "",
		"Path to save the output (if not specified, prints to stdout)")
	modelDir := flag.String("model", "assets",
		"Directory containing encoder.onnx and its catalog")
	catalogFile := flag.String("catalog", "",
		"Use a .catalog pack instead of the catalog in the model directory")
	targetWidth := flag.Int("width", 80,
		"Target width of the output in characters")
	targetHeight := flag.Int("height", 0,
		"Target height in rows (0 = derive from aspect ratio)")
	asciiOnly := flag.Bool("ascii", false,
		"Only use printable ASCII characters")
	allChars := flag.Bool("all", false,
		"Use every catalog character, including emoji and colored symbols")
	invert := flag.Bool("invert", false,
		"Invert luminance (for dark text on a light background)")
	dither := flag.Bool("dither", false,
		"Apply Atkinson dithering before matching")
	edgeWeight := flag.Float64("edge-weight", 1.0,
		"Blend between shape (1.0) and luminosity (0.0) matching")
	workers := flag.Int("workers", 1,
		"Number of matching goroutines (0 = one per CPU)")
	useCache := flag.Bool("cache", true,
		"Reuse matches for identical patches")
	previewFile := flag.String("preview", "",
		"Also render the result to this PNG file")
	fontPath := flag.String("font", "",
		"TTF font for -preview (default: Go Mono)")
	previewScale := flag.Int("previewscale", 1,
		"Scale factor for -preview")
	verbose := flag.Bool("v", false,
		"Log conversion details to stderr")
	flag.Parse()

	if *inputFile == "" {
		fmt.Println("Please provide the image using the -input flag")
		flag.PrintDefaults()
		return
	}
	if *verbose {
		img2uni.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	beginInit := time.Now()
	enc, err := dnn.NewEncoder(filepath.Join(*modelDir, img2uni.ModelFile))
	if err != nil {
		log.Fatalf("Error loading model: %v", err)
	}
	defer enc.Close()

	var cat *img2uni.Catalog
	if *catalogFile != "" {
		cat, err = img2uni.LoadCatalogPack(*catalogFile)
	} else {
		cat, err = img2uni.LoadModelDir(*modelDir)
	}
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}

	conv, err := img2uni.NewConverter(cat, enc,
		img2uni.WithWidth(*targetWidth),
		img2uni.WithHeight(*targetHeight),
		img2uni.WithASCIIOnly(*asciiOnly),
		img2uni.WithMonochromeOnly(!*allChars),
		img2uni.WithInvert(*invert),
		img2uni.WithDither(*dither),
		img2uni.WithEdgeWeight(*edgeWeight),
		img2uni.WithWorkers(*workers),
		img2uni.WithPatchCache(*useCache),
	)
	if err != nil {
		log.Fatalf("Error creating converter: %v", err)
	}
	if *verbose {
		log.Printf("Catalog: %d of %d characters, dimension %d",
			conv.Matcher().Catalog().Len(), cat.Len(), cat.Dim())
		log.Printf("Initialization time: %v", time.Since(beginInit))
	}

	beginConvert := time.Now()
	art, err := conv.ConvertFile(*inputFile)
	if err != nil {
		log.Fatalf("Error processing image: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(art), 0644); err != nil {
			log.Fatalf("Error writing to file: %v", err)
		}
		log.Printf("Output written to %s", *outputFile)
	} else {
		fmt.Print(art)
	}

	if *previewFile != "" {
		if err := savePreview(art, *fontPath, *previewScale, *previewFile); err != nil {
			log.Fatalf("Error writing preview: %v", err)
		}
		log.Printf("Preview written to %s", *previewFile)
	}

	if *verbose {
		stats := conv.Stats()
		log.Printf("Computation time: %v", time.Since(beginConvert))
		log.Printf("Cells: %d, substituted: %d", stats.Cells, stats.Substitutions)
		log.Printf("Patch cache: %d hits, %d misses", stats.CacheHits, stats.CacheMisses)
	}
}

// savePreview renders the converted text with a TTF font.
func savePreview(art, fontPath string, scale int, path string) error {
	f, err := glyph.LoadFont(fontPath)
	if err != nil {
		return err
	}
	var grid img2uni.Grid
	for _, line := range strings.Split(strings.TrimSuffix(art, "\n"), "\n") {
		grid = append(grid, []rune(line))
	}
	return img2uni.SavePreview(grid, glyph.NewRenderer(f), scale, path)
}
