// Package output encodes rendered images to PPM, PNG and JPEG and makes preview thumbnails.
package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

const jpegQuality = 95

// Filename returns the output file name for a scene in the given format
func Filename(sceneName, format string) string {
	return fmt.Sprintf("%s.%s", sceneName, strings.ToLower(format))
}

// ThumbnailFilename returns the preview file name for a scene
func ThumbnailFilename(sceneName string) string {
	return fmt.Sprintf("%s_thumb.png", sceneName)
}

// ContentType returns the MIME type for a file by its extension
func ContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return "image/x-portable-pixmap"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// Encode writes img to w in the given format: ppm, png or jpg
func Encode(w io.Writer, img image.Image, format string) error {
	format = strings.ToLower(format)
	if format == "ppm" {
		return WritePPM(w, img)
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("unsupported format %q: %w", format, err)
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// SaveImage writes img to path, choosing the format from the extension and
// creating parent directories as needed
func SaveImage(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer file.Close()
		if err := WritePPM(file, img); err != nil {
			return err
		}
		return file.Close()
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down so neither side exceeds maxSize, keeping the aspect ratio.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	if maxSize <= 0 || (bounds.Dx() <= maxSize && bounds.Dy() <= maxSize) {
		return img
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Bilinear)
}
