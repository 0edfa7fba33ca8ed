package imagefetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.svg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<svg></svg>"))
	}))
	defer srv.Close()

	client := NewClient(&Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := client.Download(context.Background(), srv.URL+"/chart.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(data))

	_, err = client.Download(context.Background(), srv.URL+"/missing.svg")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.Contains(t, err.Error(), "Failed to download chart image")
}
