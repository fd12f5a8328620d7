package ocr

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

const minOCRWidth = 900

// normalizeImage applies light cleanup before detection: orientation fix,
// grayscale, and upscaling of small captures. On any decode problem the
// original bytes are returned and tesseract gets to try them as-is.
func normalizeImage(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data
	}
	var out image.Image = imaging.Grayscale(img)
	if out.Bounds().Dx() < minOCRWidth {
		out = imaging.Resize(out, minOCRWidth*4/3, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return data
	}
	return buf.Bytes()
}
