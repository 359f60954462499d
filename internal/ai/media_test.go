package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentKinds(t *testing.T) {
	assert.True(t, IsImageAttachment("shot.PNG"))
	assert.True(t, IsImageAttachment("pic.jpeg"))
	assert.False(t, IsImageAttachment("clip.mp4"))

	assert.True(t, IsVideoAttachment("clip.mp4"))
	assert.True(t, IsVideoAttachment("raw.MKV"))
	assert.False(t, IsVideoAttachment("clip.mov"))
	assert.False(t, IsVideoAttachment("shot.png"))

	assert.True(t, IsMovAttachment("screen.MOV"))
	assert.False(t, IsMovAttachment("clip.mp4"))
}

func TestVideoMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		mimeType string
	}{
		{"clip.mp4", "video/mp4"},
		{"clip.m4v", "video/mp4"},
		{"clip.webm", "video/webm"},
		{"clip.mkv", "video/x-matroska"},
		{"clip.unknown", "video/mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			mimeType, err := VideoMIMEType(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.mimeType, mimeType)
		})
	}

	_, err := VideoMIMEType("screen.mov")
	assert.ErrorIs(t, err, ErrMovUnsupported)
}

func TestDownloadAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("attachment-bytes"))
	}))
	defer server.Close()

	data, err := DownloadAttachment(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("attachment-bytes"), data)
}

func TestDownloadAttachmentRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := DownloadAttachment(context.Background(), server.URL)
	assert.Error(t, err)
}
