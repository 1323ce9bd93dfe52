package covers

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
)

// blurHashSize is the target size for BlurHash computation. BlurHash is
// a low-resolution placeholder, so a small thumbnail produces nearly
// identical results at a fraction of the cost.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash string from a decoded image.
// Uses 4x3 components, a good balance of size (~20-30 chars) and detail
// for portrait book covers.
func ComputeBlurHash(img image.Image) (string, error) {
	thumbnail := resizeNearest(img, blurHashSize)

	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// resizeNearest scales an image down to fit within maxDim on its longer
// side, preserving aspect ratio. Nearest-neighbor sampling is fast and
// sufficient for BlurHash input.
func resizeNearest(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxDim && srcHeight <= maxDim {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = maxDim
		dstHeight = max((srcHeight*maxDim)/srcWidth, 1)
	} else {
		dstHeight = maxDim
		dstWidth = max((srcWidth*maxDim)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := range dstHeight {
		for x := range dstWidth {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}
	return dst
}
