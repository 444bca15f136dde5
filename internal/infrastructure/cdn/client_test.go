package cdn

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_SendsMultipartAndParsesResponse(t *testing.T) {
	var gotPath, gotFileName, gotContent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotFileName = header.Filename
		body, err := io.ReadAll(file)
		require.NoError(t, err)
		gotContent = string(body)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(UploadResult{
			URL:      "https://cdn.example.com/files/abc123.pdf",
			FileName: "abc123.pdf",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	result, err := client.Upload(context.Background(), "irsaliye.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/upload", gotPath)
	assert.Equal(t, "irsaliye.pdf", gotFileName)
	assert.Equal(t, "pdf-bytes", gotContent)
	assert.Equal(t, "https://cdn.example.com/files/abc123.pdf", result.URL)
	assert.Equal(t, "abc123.pdf", result.FileName)
}

func TestUpload_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Upload(context.Background(), "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "disk full")
}

func TestUpload_MissingURLRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Upload(context.Background(), "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing url")
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		_ = json.NewEncoder(w).Encode(UploadResult{URL: "https://cdn/x"})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 0)

	_, err := client.Upload(context.Background(), "a.txt", strings.NewReader("x"))
	require.NoError(t, err)
}
