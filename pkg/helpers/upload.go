package helpers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	MaxUploadSize   = 25 << 20
	MaxProductImage = 5
)

var ErrInvalidUpload = errors.New("invalid upload")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type TempFile struct {
	Path        string
	Filename    string
	ContentType string
	Ext         string
}

// TempUploads owns the files a request saved under the temp dir.
// Callers defer Cleanup right after a successful SaveTempUploads.
type TempUploads struct {
	Thumbnail *TempFile
	Images    []TempFile
	paths     []string
}

// Empty reports whether the request carried no files.
func (u *TempUploads) Empty() bool {
	return u == nil || (u.Thumbnail == nil && len(u.Images) == 0)
}

func (u *TempUploads) Cleanup() {
	if u == nil {
		return
	}
	for _, p := range u.paths {
		_ = os.Remove(p)
	}
	u.paths = nil
}

// SaveTempUploads stores the "thumbnail" and "images" parts of a multipart
// request. A non-multipart request yields an empty set.
func SaveTempUploads(c *gin.Context, dir string) (*TempUploads, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return &TempUploads{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	return SaveFileHeaders(dir, form.File["thumbnail"], form.File["images"])
}

// SaveFileHeaders validates and saves the given parts. On any failure the
// files saved so far are removed before returning.
func SaveFileHeaders(dir string, thumbs, images []*multipart.FileHeader) (*TempUploads, error) {
	if len(thumbs) > 1 {
		return nil, fmt.Errorf("%w: only one thumbnail allowed", ErrInvalidUpload)
	}
	if len(images) > MaxProductImage {
		return nil, fmt.Errorf("%w: at most %d images allowed", ErrInvalidUpload, MaxProductImage)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	u := &TempUploads{}
	for _, fh := range thumbs {
		tf, err := u.save(dir, fh)
		if err != nil {
			u.Cleanup()
			return nil, err
		}
		u.Thumbnail = &tf
	}
	for _, fh := range images {
		tf, err := u.save(dir, fh)
		if err != nil {
			u.Cleanup()
			return nil, err
		}
		u.Images = append(u.Images, tf)
	}
	return u, nil
}

func (u *TempUploads) save(dir string, fh *multipart.FileHeader) (TempFile, error) {
	if fh.Size > MaxUploadSize {
		return TempFile{}, fmt.Errorf("%w: %s exceeds 25MB", ErrInvalidUpload, fh.Filename)
	}
	src, err := fh.Open()
	if err != nil {
		return TempFile{}, err
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return TempFile{}, err
	}
	ct := strings.ToLower(mt.String())
	ext, ok := allowedImageTypes[ct]
	if !ok {
		return TempFile{}, fmt.Errorf("%w: %s has unsupported type %s", ErrInvalidUpload, fh.Filename, ct)
	}

	path := filepath.Join(dir, uuid.NewString()+ext)
	u.paths = append(u.paths, path)
	if err := saveFile(fh, path); err != nil {
		return TempFile{}, err
	}
	return TempFile{Path: path, Filename: fh.Filename, ContentType: ct, Ext: ext}, nil
}

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.ReadFrom(src)
	return err
}
