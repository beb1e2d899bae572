package storage

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"carhive/internal/pkg/config"
	"carhive/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrUnsupportedImageType = errs.New("unsupported image type")

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// LocalImageStore saves uploaded images under a configured directory and
// serves them back through a static route.
type LocalImageStore struct {
	uploadDir string
	baseURL   string
}

func NewLocalImageStore(cfg config.StorageConfig) (*LocalImageStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create upload directory")
	}
	return &LocalImageStore{
		uploadDir: cfg.UploadDir,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Save writes the uploaded file under a fresh UUID name and returns its
// public URL.
func (s *LocalImageStore) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedImageType
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", errs.Wrap(err, "failed to save uploaded file")
	}

	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}

// Delete removes a previously stored image. Failures are logged and
// swallowed: a dangling file must not fail the surrounding operation.
func (s *LocalImageStore) Delete(imageURL string) {
	name := filepath.Base(imageURL)
	if name == "." || name == "/" {
		return
	}
	path := filepath.Join(s.uploadDir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to delete stored image", "path", path, "error", err.Error())
	}
}
