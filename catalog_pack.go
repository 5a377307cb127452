package img2uni

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// catalogPackVersion is bumped whenever catalogPack changes shape.
const catalogPackVersion = 1

// catalogPack is the gob payload of a .catalog file.
type catalogPack struct {
	Version      int
	Chars        []rune
	Dim          int
	Embeddings   []float32
	Luminosities []float32
}

// WriteCatalogPack writes cat as a zstd-compressed gob stream.
func WriteCatalogPack(w io.Writer, cat *Catalog) error {
	pack := catalogPack{
		Version:      catalogPackVersion,
		Chars:        cat.Chars(),
		Dim:          cat.Dim(),
		Embeddings:   make([]float32, 0, cat.Len()*cat.Dim()),
		Luminosities: make([]float32, cat.Len()),
	}
	for i := 0; i < cat.Len(); i++ {
		for _, v := range cat.Embedding(i) {
			pack.Embeddings = append(pack.Embeddings, float32(v))
		}
		pack.Luminosities[i] = float32(cat.Luminosity(i))
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(pack); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return nil
}

// ReadCatalogPack reads a catalog written by WriteCatalogPack.
func ReadCatalogPack(r io.Reader) (*Catalog, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var pack catalogPack
	if err := gob.NewDecoder(zr).Decode(&pack); err != nil {
		return nil, fmt.Errorf("%w: failed to decode catalog pack: %w", ErrCatalog, err)
	}
	if pack.Version != catalogPackVersion {
		return nil, fmt.Errorf("%w: catalog pack version %d, expected %d",
			ErrCatalog, pack.Version, catalogPackVersion)
	}
	return NewCatalog(pack.Chars, pack.Dim, pack.Embeddings, pack.Luminosities)
}

// SaveCatalogPack writes cat to path in the .catalog format.
func SaveCatalogPack(path string, cat *Catalog) error {
	var buf bytes.Buffer
	if err := WriteCatalogPack(&buf, cat); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// LoadCatalogPack reads a .catalog file.
func LoadCatalogPack(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	cat, err := ReadCatalogPack(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}
