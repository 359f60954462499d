package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// ErrMovUnsupported is returned for .mov uploads, which the analysis path
// does not accept.
var ErrMovUnsupported = errors.New("MOV files are not supported")

// maxAttachmentBytes caps downloads so one oversized upload cannot exhaust
// memory. Discord's own attachment limits sit well below this.
const maxAttachmentBytes = 100 << 20

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
}

var videoMIMETypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/avi",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".flv":  "video/x-flv",
	".wmv":  "video/x-ms-wmv",
	".m4v":  "video/mp4",
}

var httpClient = &http.Client{Timeout: 60 * time.Second}

// IsImageAttachment reports whether the filename has a supported image
// extension.
func IsImageAttachment(filename string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// IsVideoAttachment reports whether the filename has a supported video
// extension. .mov is deliberately excluded.
func IsVideoAttachment(filename string) bool {
	_, ok := videoMIMETypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// IsMovAttachment reports whether the filename is a .mov, which gets a
// dedicated rejection message.
func IsMovAttachment(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".mov"
}

// VideoMIMEType maps a filename to the MIME type sent to the model.
func VideoMIMEType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".mov" {
		return "", ErrMovUnsupported
	}
	if mimeType, ok := videoMIMETypes[ext]; ok {
		return mimeType, nil
	}
	return "video/mp4", nil
}

// DownloadAttachment fetches an attachment by URL.
func DownloadAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment body: %w", err)
	}
	return data, nil
}
