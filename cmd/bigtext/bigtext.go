package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/wbrown/img2uni"
	"github.com/wbrown/img2uni/dnn"
	"github.com/wbrown/img2uni/glyph"
)

func main() {
	cols := flag.Int("width", 2,
		"Width of each letter in characters")
	rows := flag.Int("height", 2,
		"Height of each letter in characters")
	fontPath := flag.String("font", "",
		"TTF font to draw the letters with (default: Go Mono)")
	modelDir := flag.String("model", "assets",
		"Directory containing encoder.onnx and its catalog")
	asciiOnly := flag.Bool("ascii", false,
		"Only use printable ASCII characters")
	verbose := flag.Bool("v", false,
		"Log conversion details to stderr")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Println("Usage: bigtext [flags] TEXT")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *verbose {
		img2uni.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	f, err := glyph.LoadFont(*fontPath)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	enc, cat, err := dnn.LoadModelDir(*modelDir)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	defer enc.Close()

	conv, err := img2uni.NewConverter(cat, enc,
		img2uni.WithASCIIOnly(*asciiOnly),
		img2uni.WithMonochromeOnly(true),
	)
	if err != nil {
		log.Fatalf("Failed to create converter: %v", err)
	}

	grid, err := conv.ConvertText(text, glyph.NewRenderer(f), *cols, *rows)
	if err != nil {
		log.Fatalf("Failed to render text: %v", err)
	}
	fmt.Print(grid)
}
