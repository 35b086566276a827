package services

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"chipset-komputer/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// imageExtensions maps the accepted content types to the extension the
// stored file gets.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadService struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewUploadService(dir, baseURL string, maxBytes int64) *UploadService {
	return &UploadService{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}
}

// Save stores an uploaded image under a random name and returns its public
// URL. The type is sniffed from the content, not taken from the client.
func (s *UploadService) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", domain.ErrNoFile
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", domain.ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", errors.Wrap(err, "detect upload type")
	}
	ext, ok := imageExtensions[mt.String()]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "rewind upload")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err := writeFile(path, src); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"file": name, "type": mt.String(), "size": fh.Size}).Info("file uploaded")
	return s.baseURL + "/" + name, nil
}

// writeFile copies src to path. A failed write leaves no file behind.
func writeFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create upload file")
	}
	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.WithError(rmErr).WithField("file", path).Warn("remove partial upload")
		}
		return errors.Wrap(err, "write upload file")
	}
	return nil
}
