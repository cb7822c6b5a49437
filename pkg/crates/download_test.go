package crates

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAndExtractDownloadErrors(t *testing.T) {
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusForbidden)
	}))
	defer ts.Close()

	client := testClient(ts)
	vi := VersionInfo{
		Version:    semver.MustParse("1.0.0"),
		Num:        "1.0.0",
		ArchiveURL: ts.URL + "/dl",
	}

	err := client.FetchAndExtract(context.Background(), "demo", vi, filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, ErrDownload)
}

func TestEnsureDestination(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, ensureDestination(dest))
		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("accepts an empty directory", func(t *testing.T) {
		assert.NoError(t, ensureDestination(t.TempDir()))
	})

	t.Run("rejects a non-empty directory", func(t *testing.T) {
		dest := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dest, "f"), []byte("x"), 0o644))
		err := ensureDestination(dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not empty")
	})
}
