package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/account"
)

// Multipart bodies beyond this are refused before parsing.
const maxUploadBody = 8 << 20

func parseMultipartForm(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	if err := c.Request.ParseMultipartForm(maxUploadBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// readProfilePhoto returns the uploaded profile image, or nil when none was
// chosen. Size and extension are checked before the file is read.
func readProfilePhoto(c *gin.Context) (*account.Photo, error) {
	return readPhoto(c, "photo")
}

func readPhoto(c *gin.Context, field string) (*account.Photo, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return openPhoto(file)
}

// readPhotos returns every image uploaded under field, skipping empty
// file inputs. The first bad file fails the whole set.
func readPhotos(c *gin.Context, field string) ([]*account.Photo, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}
	var photos []*account.Photo
	for _, file := range c.Request.MultipartForm.File[field] {
		photo, err := openPhoto(file)
		if err != nil {
			return nil, err
		}
		if photo != nil {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func openPhoto(file *multipart.FileHeader) (*account.Photo, error) {
	if file.Size == 0 && file.Filename == "" {
		return nil, nil
	}
	if err := account.CheckPhoto(file.Filename, file.Size); err != nil {
		return nil, err
	}

	in, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer in.Close()

	data, err := io.ReadAll(io.LimitReader(in, account.MaxProfileImageSize+1))
	if err != nil {
		return nil, err
	}
	return account.NewPhoto(file.Filename, data)
}
