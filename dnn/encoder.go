// Package dnn runs the patch encoder model with the OpenCV DNN module.
//
// The model takes a 1x1x16x8 float32 tensor (one 8x16 grayscale patch in
// [0, 1]) and returns a unit-normalized embedding. Building this package
// requires OpenCV, see gocv.io/x/gocv.
package dnn

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/wbrown/img2uni"
	"github.com/wbrown/img2uni/imageutil"
	"gocv.io/x/gocv"
)

// Encoder embeds patches with an ONNX model. An OpenCV Net is not safe for
// concurrent use, so Embed calls are serialized. Encoder implements
// img2uni.Embedder.
type Encoder struct {
	mu  sync.Mutex
	net gocv.Net
	dim int
}

var _ img2uni.Embedder = (*Encoder)(nil)

// NewEncoder loads the ONNX model at path.
func NewEncoder(path string) (*Encoder, error) {
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load ONNX model %s", path)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set DNN backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set DNN target: %w", err)
	}
	return &Encoder{net: net}, nil
}

// LoadModelDir loads the encoder and its catalog from a model directory
// laid out as described by img2uni.LoadModelDir.
func LoadModelDir(dir string) (*Encoder, *img2uni.Catalog, error) {
	cat, err := img2uni.LoadModelDir(dir)
	if err != nil {
		return nil, nil, err
	}
	enc, err := NewEncoder(filepath.Join(dir, img2uni.ModelFile))
	if err != nil {
		return nil, nil, err
	}
	return enc, cat, nil
}

// Embed runs the model on one patch.
func (e *Encoder) Embed(patch []float32) ([]float32, error) {
	if len(patch) != imageutil.PatchSize {
		return nil, fmt.Errorf("patch has %d samples, expected %d", len(patch), imageutil.PatchSize)
	}

	input := gocv.NewMatWithSize(imageutil.PatchHeight, imageutil.PatchWidth, gocv.MatTypeCV32F)
	defer input.Close()
	for y := 0; y < imageutil.PatchHeight; y++ {
		for x := 0; x < imageutil.PatchWidth; x++ {
			input.SetFloatAt(y, x, patch[y*imageutil.PatchWidth+x])
		}
	}

	blob := gocv.BlobFromImage(input, 1.0,
		image.Pt(imageutil.PatchWidth, imageutil.PatchHeight),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.net.SetInput(blob, "")
	out := e.net.Forward("")
	defer out.Close()
	if out.Empty() {
		return nil, fmt.Errorf("model produced no output")
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read model output: %w", err)
	}
	embedding := append([]float32(nil), data...)
	e.dim = len(embedding)
	return embedding, nil
}

// Dim returns the embedding dimension seen on the last call to Embed, or
// 0 before the first call.
func (e *Encoder) Dim() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dim
}

// Close releases the model.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net.Close()
}
