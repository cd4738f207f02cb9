package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// uploadName builds "<slug-of-original-name>-<uuid><ext>".
func uploadName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%s%s", base, uuid.New().String(), ext)
}

// saveUpload writes one image into the upload dir and returns the stored
// file name.
func (h *Handlers) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if !allowedImageExt[strings.ToLower(filepath.Ext(file.Filename))] {
		return "", fmt.Errorf("unsupported image type %q", filepath.Ext(file.Filename))
	}
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uploadName(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// removeUploads deletes files saved for a request that later failed.
func (h *Handlers) removeUploads(names []string) {
	for _, n := range names {
		_ = os.Remove(filepath.Join(h.UploadDir, n))
	}
}
