package img2uni

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewCatalogValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		chars        []rune
		dim          int
		embeddings   []float32
		luminosities []float32
		wantMsg      string
	}{
		{"zero dimension", []rune{'a'}, 0, nil, nil, "must be positive"},
		{"too few values", []rune{'a', 'b'}, 3, make([]float32, 5), nil, "5 embedding values for 2 chars"},
		{"too many values", []rune{'a'}, 2, make([]float32, 3), nil, "want 2"},
		{"luminosity count", []rune{'a', 'b'}, 1, make([]float32, 2), []float32{0.1}, "luminosity count 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.chars, tt.dim, tt.embeddings, tt.luminosities)
			if !errors.Is(err, ErrCatalog) {
				t.Fatalf("Expected ErrCatalog, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error to contain %q, got %q", tt.wantMsg, err)
			}
		})
	}
}

func TestNewCatalogDefaultLuminosity(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalog([]rune{'a', 'b'}, 1, []float32{1, -1}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := 0; i < cat.Len(); i++ {
		if cat.Luminosity(i) != DefaultLuminosity {
			t.Errorf("Entry %d: expected luminosity %v, got %v", i, DefaultLuminosity, cat.Luminosity(i))
		}
	}
	if got := cat.Embedding(1); !reflect.DeepEqual(got, []float64{-1}) {
		t.Errorf("Expected embedding [-1], got %v", got)
	}
}

func TestNewCatalogCopiesInput(t *testing.T) {
	t.Parallel()

	chars := []rune{'a'}
	embeddings := []float32{1, 0}
	cat, err := NewCatalog(chars, 2, embeddings, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	chars[0] = 'z'
	embeddings[0] = 0
	if cat.Char(0) != 'a' {
		t.Errorf("Catalog char changed with caller slice: %q", cat.Char(0))
	}
	if cat.Embedding(0)[0] != 1 {
		t.Errorf("Catalog embedding changed with caller slice: %v", cat.Embedding(0))
	}
}

func TestNewCatalogFromEntries(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Char: 'a', Embedding: []float64{1, 0}, Luminosity: 0.25},
		{Char: 'b', Embedding: []float64{0, 1}, Luminosity: 0.75},
	}
	cat, err := NewCatalogFromEntries(entries)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cat.Entries(), entries) {
		t.Errorf("Entries round trip mismatch: got %+v", cat.Entries())
	}

	entries = append(entries, Entry{Char: 'c', Embedding: []float64{1}})
	if _, err := NewCatalogFromEntries(entries); !errors.Is(err, ErrCatalog) {
		t.Errorf("Expected ErrCatalog for mixed dimensions, got %v", err)
	}
	if _, err := NewCatalogFromEntries(nil); !errors.Is(err, ErrCatalog) {
		t.Errorf("Expected ErrCatalog for no entries, got %v", err)
	}
}

func TestFilterIsAlignedSubsequence(t *testing.T) {
	t.Parallel()

	chars := []rune{'a', 'é', '█', '😀', 'b', '→'}
	embeddings := make([]float32, 0, len(chars)*2)
	luminosities := make([]float32, len(chars))
	for i := range chars {
		embeddings = append(embeddings, float32(i), float32(-i))
		luminosities[i] = float32(i) / 10
	}
	src, err := NewCatalog(chars, 2, embeddings, luminosities)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name string
		pred func(rune) bool
		want []rune
	}{
		{"ascii", IsASCII, []rune{'a', 'b'}},
		{"monochrome", IsMonochrome, []rune{'a', 'é', '█', 'b'}},
		{"none", func(rune) bool { return false }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := src.Filter(tt.pred)
			if !reflect.DeepEqual(filtered.Chars(), tt.want) {
				t.Fatalf("Expected chars %q, got %q", tt.want, filtered.Chars())
			}
			if filtered.Dim() != src.Dim() {
				t.Errorf("Expected dim %d, got %d", src.Dim(), filtered.Dim())
			}

			// Walk the source to confirm order and alignment.
			j := 0
			for i := 0; i < src.Len() && j < filtered.Len(); i++ {
				if src.Char(i) != filtered.Char(j) {
					continue
				}
				if !reflect.DeepEqual(src.Embedding(i), filtered.Embedding(j)) {
					t.Errorf("Embedding of %q misaligned: %v vs %v", src.Char(i), src.Embedding(i), filtered.Embedding(j))
				}
				if src.Luminosity(i) != filtered.Luminosity(j) {
					t.Errorf("Luminosity of %q misaligned: %v vs %v", src.Char(i), src.Luminosity(i), filtered.Luminosity(j))
				}
				j++
			}
			if j != filtered.Len() {
				t.Errorf("Filtered catalog is not a subsequence of the source")
			}
		})
	}

	if src.Len() != len(chars) {
		t.Errorf("Filter modified the source catalog: %d entries", src.Len())
	}
}

func TestCharacterPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ch         rune
		ascii      bool
		monochrome bool
	}{
		{0x1F, false, false},
		{' ', true, true},
		{'~', true, true},
		{0x7F, false, false},
		{0x9F, false, false},
		{0xA0, false, true},
		{'ÿ', false, true},
		{0x0100, false, false},
		{'─', false, true},
		{'▀', false, true},
		{'▟', false, true},
		{'■', false, true},
		{'◿', false, true},
		{0x2600, false, false},
		{'😀', false, false},
	}

	for _, tt := range tests {
		if got := IsASCII(tt.ch); got != tt.ascii {
			t.Errorf("IsASCII(%U) = %v, expected %v", tt.ch, got, tt.ascii)
		}
		if got := IsMonochrome(tt.ch); got != tt.monochrome {
			t.Errorf("IsMonochrome(%U) = %v, expected %v", tt.ch, got, tt.monochrome)
		}
	}
}
