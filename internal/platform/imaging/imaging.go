// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package imaging prepares uploaded photos for storage.

Every photo is re-encoded as JPEG in two renditions:

  - Full: the longest side is capped at [MaxFullSize].
  - Thumb: a centre-cropped [ThumbSize] square used for tree nodes and avatars.

Re-encoding also strips EXIF and any trailing payload from the original.
*/
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	// Registered decoders for accepted upload formats
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

const (
	MaxFullSize  = 1200
	ThumbSize    = 80
	FullQuality  = 85
	ThumbQuality = 80
)

// Renditions holds the encoded outputs of [Process].
type Renditions struct {
	Full  []byte
	Thumb []byte
}

/*
Process decodes an uploaded image and produces the full and thumbnail JPEGs.

Returns:
  - Renditions: Encoded bytes of both outputs
  - error: Undecodable input or encoding failure
*/
func Process(data []byte) (Renditions, error) {
	source, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Renditions{}, fmt.Errorf("imaging: decode failed: %w", err)
	}

	full, err := encodeJPEG(Fit(source, MaxFullSize), FullQuality)
	if err != nil {
		return Renditions{}, err
	}

	thumb, err := encodeJPEG(Thumbnail(source, ThumbSize), ThumbQuality)
	if err != nil {
		return Renditions{}, err
	}

	return Renditions{Full: full, Thumb: thumb}, nil
}

// Fit scales src down so neither side exceeds max, keeping the aspect ratio.
// Smaller images are only flattened onto an opaque canvas.
func Fit(src image.Image, max int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > max || height > max {
		if width >= height {
			height = height * max / width
			width = max
		} else {
			width = width * max / height
			height = max
		}
	}

	return scale(src, bounds, max1(width), max1(height))
}

// Thumbnail crops the centred square of src and scales it to size×size.
func Thumbnail(src image.Image, size int) image.Image {
	bounds := src.Bounds()
	side := min(bounds.Dx(), bounds.Dy())

	left := bounds.Min.X + (bounds.Dx()-side)/2
	top := bounds.Min.Y + (bounds.Dy()-side)/2
	crop := image.Rect(left, top, left+side, top+side)

	return scale(src, crop, size, size)
}

// scale draws the region of src onto a white RGB canvas of the given size.
// JPEG has no alpha channel, so transparency is flattened here.
func scale(src image.Image, region image.Rectangle, width, height int) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), src, region, draw.Over, nil)
	return canvas
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("imaging: encode failed: %w", err)
	}
	return buffer.Bytes(), nil
}

func max1(value int) int {
	if value < 1 {
		return 1
	}
	return value
}
