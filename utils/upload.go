package utils

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 8 MB, matches the upload limit of the admin frontend.
const maxUploadSize = 8 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ErrNoImage is returned when the multipart form has no image part.
var ErrNoImage = errors.New("image file missing")

// ErrBadImage is returned for files that are not an accepted image type.
var ErrBadImage = errors.New("unsupported image type")

// SaveImage stores the request's "image" multipart file under UPLOAD_DIR
// (default ./uploads) with a random name and returns the stored path.
func SaveImage(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", ErrNoImage
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", ErrNoImage
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		return "", ErrBadImage
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
