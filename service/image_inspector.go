package service

import (
	"bytes"
	"image"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	// registers the webp decoder with image.Decode
	_ "golang.org/x/image/webp"
)

// allowedImageTypes maps accepted content types to the extensions they may carry
var allowedImageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
}

// ImageInfo describes an accepted upload
type ImageInfo struct {
	ContentType string
	Format      string
	Width       int
	Height      int
}

// ImageInspector checks that an upload is an image we accept before any
// remote work starts.
type ImageInspector struct{}

// NewImageInspector creates a new ImageInspector
func NewImageInspector() *ImageInspector {
	return &ImageInspector{}
}

// NormalizeContentType lower-cases a declared type, drops parameters and maps image/jpg to image/jpeg
func NormalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	return ct
}

// AllowedContentType reports whether the declared type is on the allow-list
func AllowedContentType(contentType string) bool {
	_, ok := allowedImageTypes[NormalizeContentType(contentType)]
	return ok
}

// Inspect sniffs the payload, compares it with the declared type and decodes
// it. Any mismatch returns ErrUnsupportedImage.
func (ii *ImageInspector) Inspect(filename, declaredType string, data []byte) (*ImageInfo, error) {
	declared := NormalizeContentType(declaredType)
	exts, ok := allowedImageTypes[declared]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && !slices.Contains(exts, ext) {
		return nil, ErrUnsupportedImage
	}

	if sniffed := NormalizeContentType(http.DetectContentType(data)); sniffed != declared {
		return nil, ErrUnsupportedImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	bounds := img.Bounds()
	return &ImageInfo{
		ContentType: declared,
		Format:      format,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

