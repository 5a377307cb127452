package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/img2uni"
	"github.com/wbrown/img2uni/dnn"
	"github.com/wbrown/img2uni/glyph"
	"github.com/wbrown/img2uni/imageutil"
)

// charRanges are the named Unicode ranges that can be put in a catalog.
var charRanges = map[string][2]rune{
	"ascii":  {0x20, 0x7E},
	"latin1": {0xA0, 0xFF},
	"box":    {0x2500, 0x257F},
	"blocks": {0x2580, 0x259F},
	"shapes": {0x25A0, 0x25FF},
}

// buildCharset expands a comma separated list of range names, keeping
// the order given and dropping duplicates.
func buildCharset(sets string) ([]rune, error) {
	var chars []rune
	seen := make(map[rune]bool)
	for _, name := range strings.Split(sets, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		r, ok := charRanges[name]
		if !ok {
			return nil, fmt.Errorf("unknown character set %q", name)
		}
		for ch := r[0]; ch <= r[1]; ch++ {
			if !seen[ch] {
				seen[ch] = true
				chars = append(chars, ch)
			}
		}
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("no characters selected")
	}
	return chars, nil
}

// renderable keeps the characters the font can draw. Space always stays.
func renderable(r *glyph.Renderer, chars []rune) []rune {
	var out []rune
	for _, ch := range chars {
		if ch == ' ' || r.Has(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// computeLuminosities renders every character into a catalog cell and
// returns its mean intensity in [0, 1].
func computeLuminosities(r *glyph.Renderer, chars []rune) []float32 {
	lums := make([]float32, len(chars))
	for i, ch := range chars {
		lums[i] = float32(glyph.Luminosity(r.RenderCell(ch)))
	}
	return lums
}

// computeEmbeddings runs every rendered cell through the encoder.
func computeEmbeddings(emb img2uni.Embedder, r *glyph.Renderer, chars []rune) ([]float32, int, error) {
	var table []float32
	dim := 0
	for i, ch := range chars {
		cell := r.RenderCell(ch)
		patch := imageutil.NewChunker(cell, 1, 1).Patch(0, 0)
		vec, err := emb.Embed(patch)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to embed %q: %w", ch, err)
		}
		if i == 0 {
			dim = len(vec)
			table = make([]float32, 0, len(chars)*dim)
		} else if len(vec) != dim {
			return nil, 0, fmt.Errorf("%q embedded to dimension %d, expected %d", ch, len(vec), dim)
		}
		table = append(table, vec...)
	}
	return table, dim, nil
}

// withLuminosities rebuilds cat with luminosities measured from r.
func withLuminosities(cat *img2uni.Catalog, r *glyph.Renderer) (*img2uni.Catalog, error) {
	chars := cat.Chars()
	embeddings := make([]float32, 0, cat.Len()*cat.Dim())
	for i := 0; i < cat.Len(); i++ {
		for _, v := range cat.Embedding(i) {
			embeddings = append(embeddings, float32(v))
		}
	}
	return img2uni.NewCatalog(chars, cat.Dim(), embeddings, computeLuminosities(r, chars))
}

func main() {
	fontPath := flag.String("font", "",
		"TTF font to render catalog cells with (default: Go Mono)")
	fromDir := flag.String("from", "",
		"Model directory whose existing catalog gets luminosities added")
	modelPath := flag.String("model", "",
		"ONNX encoder used to embed rendered cells")
	sets := flag.String("sets", "ascii,latin1,box,blocks,shapes",
		"Comma separated character sets: ascii, latin1, box, blocks, shapes")
	outputDir := flag.String("output", "",
		"Directory to write encoder.chars.json and encoder.embeddings.bin")
	compress := flag.Bool("zstd", false,
		"Write the embedding blob zstd compressed (.bin.zst)")
	packFile := flag.String("pack", "",
		"Also write a single-file .catalog pack")
	flag.Parse()

	if *outputDir == "" && *packFile == "" {
		fmt.Println("At least one of -output or -pack is required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if (*fromDir == "") == (*modelPath == "") {
		fmt.Println("Exactly one of -from or -model is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := glyph.LoadFont(*fontPath)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	r := glyph.NewRenderer(f)

	var cat *img2uni.Catalog
	if *fromDir != "" {
		src, err := img2uni.LoadModelDir(*fromDir)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		log.Printf("Loaded %d characters of dimension %d from %s", src.Len(), src.Dim(), *fromDir)
		if cat, err = withLuminosities(src, r); err != nil {
			log.Fatalf("Failed to compute luminosities: %v", err)
		}
	} else {
		chars, err := buildCharset(*sets)
		if err != nil {
			log.Fatalf("Invalid -sets: %v", err)
		}
		chars = renderable(r, chars)
		log.Printf("Embedding %d characters with %s", len(chars), *modelPath)

		enc, err := dnn.NewEncoder(*modelPath)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
		defer enc.Close()

		embeddings, dim, err := computeEmbeddings(enc, r, chars)
		if err != nil {
			log.Fatalf("Failed to compute embeddings: %v", err)
		}
		cat, err = img2uni.NewCatalog(chars, dim, embeddings, computeLuminosities(r, chars))
		if err != nil {
			log.Fatalf("Failed to build catalog: %v", err)
		}
	}

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		descPath := filepath.Join(*outputDir, img2uni.DescriptorFile)
		blobPath := filepath.Join(*outputDir, img2uni.EmbeddingsFile)
		if *compress {
			blobPath += ".zst"
		}
		if err := img2uni.SaveDescriptor(descPath, cat); err != nil {
			log.Fatalf("Failed to save descriptor: %v", err)
		}
		if err := img2uni.SaveEmbeddings(blobPath, cat); err != nil {
			log.Fatalf("Failed to save embeddings: %v", err)
		}
		log.Printf("Saved catalog to %s and %s", descPath, blobPath)
	}

	if *packFile != "" {
		if err := img2uni.SaveCatalogPack(*packFile, cat); err != nil {
			log.Fatalf("Failed to save catalog pack: %v", err)
		}
		if fileInfo, err := os.Stat(*packFile); err == nil {
			log.Printf("Saved catalog pack to %s (%.2f KB)", *packFile, float64(fileInfo.Size())/1024)
		}
	}
}
