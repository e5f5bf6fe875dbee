package imaging

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxCropScale caps the zoom factor of CropRegion.
const MaxCropScale = 8.0

// CropResult contains the cropped image data
type CropResult struct {
	// Region is the cropped area in source image coordinates after padding and clamping.
	Region      image.Rectangle `json:"-"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	ImageBase64 string          `json:"image_base64"`
	MimeType    string          `json:"mime_type"`
}

// CropRegion cuts r grown by pad pixels on every side out of img, clamped to the image
// bounds, and scales the result. A scale of zero or less means 1.
func CropRegion(img image.Image, r image.Rectangle, pad int, scale float64) (*CropResult, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	if pad < 0 {
		pad = 0
	}
	if scale <= 0 {
		scale = 1
	}
	if scale > MaxCropScale {
		return nil, fmt.Errorf("scale %.2f above maximum %.0f", scale, MaxCropScale)
	}

	region := r.Canon().Inset(-pad).Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, img.Bounds())
	}

	cropped := imaging.Crop(img, region)
	if scale != 1 {
		w := max(1, int(float64(cropped.Bounds().Dx())*scale))
		h := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	data, err := EncodePNG(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Region:      region,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
