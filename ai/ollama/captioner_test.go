package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/curio/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal valid JPEG header so content sniffing recognizes the payload
var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("fake image payload")...)

func testCaptioner(t *testing.T) *Captioner {
	t.Helper()
	c, err := newCaptioner(ai.NewConfig())
	require.NoError(t, err)
	return c
}

func TestNewCaptioner_InvalidConfig(t *testing.T) {
	cfg := ai.NewConfig(ai.WithVisionModel(""))

	_, err := NewCaptioner(cfg)
	assert.Error(t, err)
}

func TestCaptionImage_EmptyURL(t *testing.T) {
	c := testCaptioner(t)

	_, err := c.CaptionImage(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoImageURL)
}

func TestDownloadImage(t *testing.T) {
	t.Run("happy path with content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(jpegBytes)
		}))
		defer srv.Close()

		c := testCaptioner(t)
		data, mimeType, err := c.downloadImage(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, jpegBytes, data)
		assert.Equal(t, "image/jpeg", mimeType)
	})

	t.Run("content type with charset parameter", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png; charset=binary")
			w.Write(jpegBytes)
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, mimeType, err := c.downloadImage(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
	})

	t.Run("sniffs image without content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(jpegBytes)
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, mimeType, err := c.downloadImage(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mimeType)
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>not found page</html>"))
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, _, err := c.downloadImage(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an image")
	})

	t.Run("rejects non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, _, err := c.downloadImage(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("rejects empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, _, err := c.downloadImage(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty body")
	})

	t.Run("server failure classified transient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, _, err := c.downloadImage(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, ai.FailureTransient, ai.ClassifyFailure(err))
	})

	t.Run("missing image classified fatal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		c := testCaptioner(t)
		_, _, err := c.downloadImage(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, ai.FailureFatal, ai.ClassifyFailure(err))
	})
}

func TestCaptionInstruction_Shape(t *testing.T) {
	// The cleanup phrases assume caption-style output; the instruction must
	// not drift toward chatty multi-paragraph answers.
	assert.True(t, strings.Contains(captionInstruction, "one short sentence"))
}
