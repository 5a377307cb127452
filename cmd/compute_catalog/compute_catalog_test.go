package main

import (
	"errors"
	"testing"

	"github.com/wbrown/img2uni"
	"github.com/wbrown/img2uni/glyph"
	"github.com/wbrown/img2uni/imageutil"
)

func TestBuildCharset(t *testing.T) {
	chars, err := buildCharset("ascii")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(chars) != 95 || chars[0] != ' ' || chars[94] != '~' {
		t.Errorf("Expected 95 ASCII chars from ' ' to '~', got %d", len(chars))
	}

	chars, err = buildCharset(" Blocks , ascii,blocks")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(chars) != 32+95 {
		t.Errorf("Expected duplicates dropped, got %d chars", len(chars))
	}
	if chars[0] != '▀' {
		t.Errorf("Expected order of sets kept, first char %q", chars[0])
	}
	for _, ch := range chars {
		if !img2uni.IsMonochrome(ch) {
			t.Errorf("Character %U is outside the monochrome ranges", ch)
		}
	}

	if _, err := buildCharset("emoji"); err == nil {
		t.Error("Expected error for unknown set")
	}
	if _, err := buildCharset(" , "); err == nil {
		t.Error("Expected error for empty selection")
	}
}

func TestComputeLuminosities(t *testing.T) {
	r := glyph.NewRenderer(nil)
	lums := computeLuminosities(r, []rune{' ', '.', '#'})
	if lums[0] != 0 {
		t.Errorf("Expected space luminosity 0, got %v", lums[0])
	}
	if !(lums[1] < lums[2]) {
		t.Errorf("Expected '.' darker than '#', got %v and %v", lums[1], lums[2])
	}
}

func TestComputeEmbeddings(t *testing.T) {
	r := glyph.NewRenderer(nil)
	meanEmbedder := img2uni.EmbedderFunc(func(patch []float32) ([]float32, error) {
		if len(patch) != imageutil.PatchSize {
			return nil, errors.New("bad patch")
		}
		return []float32{imageutil.Mean(patch), 1}, nil
	})

	chars := []rune{' ', '#'}
	table, dim, err := computeEmbeddings(meanEmbedder, r, chars)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dim != 2 || len(table) != 4 {
		t.Fatalf("Expected 2x2 table, got dim %d with %d values", dim, len(table))
	}
	if table[0] != 0 || table[2] <= 0 {
		t.Errorf("Unexpected embeddings %v", table)
	}

	cat, err := img2uni.NewCatalog(chars, dim, table, nil)
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	lit, err := withLuminosities(cat, r)
	if err != nil {
		t.Fatalf("withLuminosities failed: %v", err)
	}
	if lit.Luminosity(0) != 0 || lit.Luminosity(1) <= 0 {
		t.Errorf("Expected measured luminosities, got %v and %v", lit.Luminosity(0), lit.Luminosity(1))
	}

	ragged := 0
	raggedEmbedder := img2uni.EmbedderFunc(func([]float32) ([]float32, error) {
		ragged++
		return make([]float32, ragged), nil
	})
	if _, _, err := computeEmbeddings(raggedEmbedder, r, chars); err == nil {
		t.Error("Expected error for changing dimension")
	}
}
