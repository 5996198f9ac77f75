package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
)

// thumbnail rendering parameters for the gallery grid
const (
	thumbMaxDim  = 640
	thumbQuality = 82
)

// VariantService renders derived images: gallery thumbnails and the four PWA
// branding icon rasters.
type VariantService struct {
	basePath string
}

// NewVariantService creates a new VariantService rooted at the media base path
func NewVariantService(basePath string) *VariantService {
	return &VariantService{basePath: basePath}
}

// GenerateThumbnail renders the gallery thumbnail for an uploaded original
// and returns its relative path. Orientation is the EXIF orientation value.
func (s *VariantService) GenerateThumbnail(imageData []byte, photoID, storedPath string, orientation int) (string, error) {
	img, err := decodeImage(imageData, storedPath)
	if err != nil {
		return "", err
	}
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	newWidth, newHeight := fitWithin(width, height, thumbMaxDim)
	resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)

	thumbDir := filepath.Join(filepath.Dir(filepath.FromSlash(storedPath)), ".thumbs")
	if err := os.MkdirAll(filepath.Join(s.basePath, thumbDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	relativePath := filepath.Join(thumbDir, photoID+".jpg")
	out, err := os.Create(filepath.Join(s.basePath, relativePath))
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: thumbQuality}); err != nil {
		os.Remove(filepath.Join(s.basePath, relativePath))
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return filepath.ToSlash(relativePath), nil
}

// BrandingIcon is one rendered PWA icon raster
type BrandingIcon struct {
	Name string
	Data []byte
}

// RenderBrandingIcons produces the four PWA icon variants from one uploaded
// logo: 192 and 512 px plain, plus maskable versions with safe-zone padding
// on an opaque background.
func (s *VariantService) RenderBrandingIcons(logoData []byte) ([]BrandingIcon, error) {
	img, err := decodeImage(logoData, "logo")
	if err != nil {
		return nil, err
	}

	variants := []struct {
		name     string
		size     int
		maskable bool
	}{
		{"icon-192.png", 192, false},
		{"icon-512.png", 512, false},
		{"icon-maskable-192.png", 192, true},
		{"icon-maskable-512.png", 512, true},
	}

	icons := make([]BrandingIcon, 0, len(variants))
	for _, v := range variants {
		rendered := renderIcon(img, v.size, v.maskable)

		var buf bytes.Buffer
		if err := png.Encode(&buf, rendered); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", v.name, err)
		}
		icons = append(icons, BrandingIcon{Name: v.name, Data: buf.Bytes()})
	}

	return icons, nil
}

// renderIcon fits the logo onto a square canvas. Maskable icons shrink the
// logo into the 80% safe zone so platform masks cannot clip it.
func renderIcon(logo image.Image, size int, maskable bool) image.Image {
	inner := size
	if maskable {
		inner = size * 8 / 10
	}

	bounds := logo.Bounds()
	fitW, fitH := fitWithin(bounds.Dx(), bounds.Dy(), inner)
	fitted := imaging.Resize(logo, fitW, fitH, imaging.Lanczos)

	canvas := imaging.New(size, size, color.White)
	return imaging.PasteCenter(canvas, fitted)
}

// fitWithin scales (width, height) down to fit maxDim, preserving aspect ratio
func fitWithin(width, height, maxDim int) (int, int) {
	if width >= height {
		if width <= maxDim {
			return width, height
		}
		return maxDim, height * maxDim / width
	}
	if height <= maxDim {
		return width, height
	}
	return width * maxDim / height, maxDim
}

// decodeImage decodes standard formats plus HEIC/HEIF
func decodeImage(data []byte, filename string) (image.Image, error) {
	if IsHEIC(filename) {
		img, err := goheif.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode HEIC image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// some HEIC uploads arrive with a misleading extension
		if heicImg, heicErr := goheif.Decode(bytes.NewReader(data)); heicErr == nil {
			return heicImg, nil
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// applyOrientation corrects image orientation based on EXIF data
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Rotate270(imaging.FlipH(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Rotate90(imaging.FlipH(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// IsSupportedFormat checks if the file extension is supported for thumbnail
// generation
func IsSupportedFormat(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif":
		return true
	}
	return false
}

// IsHEIC checks if the file is HEIC/HEIF format (requires special handling)
func IsHEIC(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".heic" || ext == ".heif"
}
