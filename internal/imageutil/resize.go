package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxReceiptDimension is the largest width or height sent to the agent.
// Receipt photos from phone cameras are routinely 4000px on the long edge,
// which wastes upload bandwidth and model tokens without improving OCR.
const MaxReceiptDimension = 1536

const jpegQuality = 85

// Downscale shrinks an image so neither dimension exceeds
// MaxReceiptDimension, preserving aspect ratio and the original encoding.
// Images already within bounds are returned unchanged.
func Downscale(imageData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= MaxReceiptDimension && height <= MaxReceiptDimension {
		return imageData, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = MaxReceiptDimension
		newHeight = int(float64(height) * float64(MaxReceiptDimension) / float64(width))
	} else {
		newHeight = MaxReceiptDimension
		newWidth = int(float64(width) * float64(MaxReceiptDimension) / float64(height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}
