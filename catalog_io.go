package img2uni

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

// File names inside a model directory.
const (
	ModelFile      = "encoder.onnx"
	DescriptorFile = "encoder.chars.json"
	EmbeddingsFile = "encoder.embeddings.bin"
)

// descriptor is the JSON side of the two-file catalog format.
type descriptor struct {
	Chars        []string  `json:"chars"`
	EmbeddingDim int       `json:"embedding_dim"`
	Luminosities []float32 `json:"luminosities,omitempty"`
}

// LoadCatalog loads a catalog from a JSON descriptor and a little-endian
// float32 embedding blob. Blob paths ending in ".zst" are decompressed.
func LoadCatalog(descriptorPath, blobPath string) (*Catalog, error) {
	df, err := os.Open(descriptorPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog descriptor: %w", err)
	}
	defer df.Close()

	bf, err := os.Open(blobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding blob: %w", err)
	}
	defer bf.Close()

	var blob io.Reader = bf
	if strings.HasSuffix(blobPath, ".zst") {
		zr, err := zstd.NewReader(bf)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		blob = zr
	}

	cat, err := ReadCatalog(df, blob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", descriptorPath, err)
	}
	return cat, nil
}

// LoadModelDir loads the catalog stored next to the encoder model in dir:
// encoder.chars.json plus encoder.embeddings.bin, or its ".zst" variant
// when the plain blob is absent.
func LoadModelDir(dir string) (*Catalog, error) {
	blobPath := filepath.Join(dir, EmbeddingsFile)
	if _, err := os.Stat(blobPath); os.IsNotExist(err) {
		if _, zerr := os.Stat(blobPath + ".zst"); zerr == nil {
			blobPath += ".zst"
		}
	}
	return LoadCatalog(filepath.Join(dir, DescriptorFile), blobPath)
}

// ReadCatalog decodes a catalog from a descriptor and an embedding blob.
// Every failure wraps ErrCatalog and reports the offending counts.
func ReadCatalog(descriptorReader, blobReader io.Reader) (*Catalog, error) {
	var desc descriptor
	if err := json.NewDecoder(descriptorReader).Decode(&desc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse descriptor: %w", ErrCatalog, err)
	}

	chars := make([]rune, len(desc.Chars))
	for i, s := range desc.Chars {
		if s == "" {
			return nil, fmt.Errorf("%w: character %d is an empty string", ErrCatalog, i)
		}
		chars[i], _ = utf8.DecodeRuneInString(s)
	}

	data, err := io.ReadAll(blobReader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read embedding blob: %w", ErrCatalog, err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: embedding blob length %d is not a multiple of 4", ErrCatalog, len(data))
	}
	embeddings := make([]float32, len(data)/4)
	for i := range embeddings {
		embeddings[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return NewCatalog(chars, desc.EmbeddingDim, embeddings, desc.Luminosities)
}

// SaveDescriptor writes the JSON descriptor of cat, luminosities included.
func SaveDescriptor(path string, cat *Catalog) error {
	desc := descriptor{
		Chars:        make([]string, cat.Len()),
		EmbeddingDim: cat.Dim(),
		Luminosities: make([]float32, cat.Len()),
	}
	for i := 0; i < cat.Len(); i++ {
		desc.Chars[i] = string(cat.Char(i))
		desc.Luminosities[i] = float32(cat.Luminosity(i))
	}

	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write descriptor: %w", err)
	}
	return nil
}

// WriteEmbeddings writes the embedding table of cat as little-endian
// float32, row-major.
func WriteEmbeddings(w io.Writer, cat *Catalog) error {
	var buf bytes.Buffer
	buf.Grow(cat.Len() * cat.Dim() * 4)
	var b [4]byte
	for i := 0; i < cat.Len(); i++ {
		for _, v := range cat.Embedding(i) {
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
			buf.Write(b[:])
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write embeddings: %w", err)
	}
	return nil
}

// SaveEmbeddings writes the embedding blob of cat to path, zstd
// compressed when path ends in ".zst".
func SaveEmbeddings(path string, cat *Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create embedding blob: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return WriteEmbeddings(f, cat)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := WriteEmbeddings(zw, cat); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush zstd stream: %w", err)
	}
	return nil
}
