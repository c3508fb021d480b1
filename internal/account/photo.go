package account

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxProfileImageSize is inclusive: a photo of exactly 1 MiB is accepted.
const MaxProfileImageSize = 1 << 20

var (
	ErrPhotoTooLarge = errors.New("이미지 사이즈는 최대 1MB입니다.")
	ErrPhotoType     = errors.New("jpg, jpeg, webp, png, gif, svg 파일만 업로드할 수 있습니다.")
)

var allowedPhotoExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".png":  {},
	".gif":  {},
	".svg":  {},
}

type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CheckPhoto validates a profile image by name and size before it is read.
func CheckPhoto(filename string, size int64) error {
	if size > MaxProfileImageSize {
		return ErrPhotoTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedPhotoExtensions[ext]; !ok {
		return ErrPhotoType
	}
	return nil
}

// NewPhoto checks and wraps uploaded bytes.
func NewPhoto(filename string, data []byte) (*Photo, error) {
	if err := CheckPhoto(filename, int64(len(data))); err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(data)
	if strings.EqualFold(filepath.Ext(filename), ".svg") {
		contentType = "image/svg+xml"
	}
	return &Photo{Filename: filepath.Base(filename), ContentType: contentType, Data: data}, nil
}
