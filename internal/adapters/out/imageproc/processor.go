// Package imageproc produces serving renditions of uploaded menu images.
// It reads the raw object from storage, validates the content is a real
// image regardless of the file extension, scales it down to a bounded
// size, and writes the rendition back under a derived key.
package imageproc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"foodfast/internal/core/ports"
)

// DefaultMaxDimension bounds the longest side of a processed rendition.
const DefaultMaxDimension = 1024

const jpegQuality = 85

// Resizer implements ImageProcessor by decoding the source object and
// scaling it so neither side exceeds maxDimension. The rendition is stored
// under processed/ mirroring the source key.
type Resizer struct {
	storage      ports.ObjectStorage
	maxDimension int
	logger       *slog.Logger
}

// NewResizer creates an image processor writing renditions back into storage.
func NewResizer(storage ports.ObjectStorage, maxDimension int, logger *slog.Logger) (*Resizer, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage must not be nil")
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resizer{
		storage:      storage,
		maxDimension: maxDimension,
		logger:       logger.With("component", "image_processor"),
	}, nil
}

// Process handles the object stored under sourceKey and returns the storage
// key of the processed rendition.
func (r *Resizer) Process(ctx context.Context, sourceKey string) (string, error) {
	reader, err := r.storage.Get(ctx, sourceKey)
	if err != nil {
		return "", fmt.Errorf("read source object: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source object: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("content is %s, not an image", mtype)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s image: %w", mtype, err)
	}

	scaled := r.scale(img)

	var buf bytes.Buffer
	outExt := ".png"
	switch format {
	case "jpeg":
		outExt = ".jpg"
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		outExt = ".gif"
		err = gif.Encode(&buf, scaled, nil)
	default:
		// png, webp and anything else renders as png
		err = png.Encode(&buf, scaled)
	}
	if err != nil {
		return "", fmt.Errorf("encode rendition: %w", err)
	}

	destKey := renditionKey(sourceKey, outExt)
	if err = r.storage.Put(ctx, destKey, &buf); err != nil {
		return "", fmt.Errorf("store rendition: %w", err)
	}

	bounds := scaled.Bounds()
	r.logger.Debug("rendition stored",
		"source_key", sourceKey,
		"dest_key", destKey,
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy())

	return destKey, nil
}

// scale shrinks img so the longest side is at most maxDimension, preserving
// aspect ratio. Images already within bounds are returned untouched.
func (r *Resizer) scale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := max(w, h)
	if longest <= r.maxDimension {
		return img
	}

	scaledW := w * r.maxDimension / longest
	scaledH := h * r.maxDimension / longest
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// renditionKey mirrors the source key under processed/ with the output
// extension, so uploads/<restaurant>/<job>.png maps to
// processed/<restaurant>/<job>.png.
func renditionKey(sourceKey, outExt string) string {
	key := strings.TrimPrefix(sourceKey, "uploads/")
	key = strings.TrimSuffix(key, path.Ext(key))
	return path.Join("processed", key+outExt)
}
