package handlers

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// maxUploadSize caps a single uploaded file at 50MB, matching the limit the
// client is told about.
const maxUploadSize = 50 << 20

// saveUploadedFile streams a multipart file into uploadDir/subdir under a
// unique name and returns its public URL path.
func saveUploadedFile(fh *multipart.FileHeader, uploadDir, subdir string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", echo.NewHTTPError(http.StatusBadRequest, "File is too large. Files must be under 50MB.")
	}

	dir := filepath.Join(uploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), filepath.Ext(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + subdir + "/" + name, nil
}

// removeUploadedFile deletes the file behind a public /uploads URL. Default
// images and files that are already gone are left alone.
func removeUploadedFile(uploadDir, publicURL string) {
	if publicURL == "" || strings.Contains(publicURL, "/defaults/") {
		return
	}
	rel, ok := strings.CutPrefix(publicURL, "/uploads/")
	if !ok {
		return
	}
	os.Remove(filepath.Join(uploadDir, filepath.FromSlash(rel)))
}

// isImage reports whether the multipart part declares an image content type.
func isImage(fh *multipart.FileHeader) bool {
	return strings.HasPrefix(fh.Header.Get("Content-Type"), "image/")
}

// isVideo reports whether the multipart part declares a video content type.
func isVideo(fh *multipart.FileHeader) bool {
	return strings.HasPrefix(fh.Header.Get("Content-Type"), "video/")
}
