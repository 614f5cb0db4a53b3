package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/nodewee/ocr-pipeline/pkg/interfaces"
	"github.com/nodewee/ocr-pipeline/pkg/utils"
)

// Every source is normalized to an image.Image before recognition. Encoded
// sources have their EXIF orientation applied.

type imageSource struct {
	img image.Image
}

// FromImage wraps an in-memory image
func FromImage(img image.Image) interfaces.ImageSource {
	return imageSource{img: img}
}

func (s imageSource) Load() (image.Image, error) {
	if s.img == nil {
		return nil, utils.NewValidationError("image source is nil", nil)
	}
	return s.img, nil
}

func (s imageSource) String() string {
	if s.img == nil {
		return "image(nil)"
	}
	b := s.img.Bounds()
	return fmt.Sprintf("image(%dx%d)", b.Dx(), b.Dy())
}

type pathSource string

// FromPath reads an image file when the source is loaded
func FromPath(path string) interfaces.ImageSource {
	return pathSource(path)
}

func (s pathSource) Load() (image.Image, error) {
	path := string(s)
	if err := utils.CheckFileExists(path); err != nil {
		return nil, err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.NewOCRError(fmt.Sprintf("failed to load image: %s", path), err)
	}
	return img, nil
}

func (s pathSource) String() string {
	return string(s)
}

type bytesSource []byte

// FromBytes decodes an encoded image (PNG, JPEG, TIFF, ...) when the source is loaded
func FromBytes(data []byte) interfaces.ImageSource {
	return bytesSource(data)
}

func (s bytesSource) Load() (image.Image, error) {
	if len(s) == 0 {
		return nil, utils.NewValidationError("image data is empty", nil)
	}

	img, err := imaging.Decode(bytes.NewReader(s), imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.NewOCRError("failed to decode image data", err)
	}
	return img, nil
}

func (s bytesSource) String() string {
	return fmt.Sprintf("bytes(%d)", len(s))
}
