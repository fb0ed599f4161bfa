package storms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize_DownloadsAndCaches(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("EVTYPE\nTORNADO\n"))
	}))

	client := NewClient(t.TempDir(), time.Second, testLogger())

	path, err := client.Localize(context.Background(), server.URL+"/storms.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TORNADO")

	// Second resolve must hit the cache, even with the server gone.
	server.Close()
	again, err := client.Localize(context.Background(), server.URL+"/storms.csv")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, hits)
}

func TestLocalize_PreservesCompressedSuffix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("compressed"))
	}))
	defer server.Close()

	client := NewClient(t.TempDir(), time.Second, testLogger())

	path, err := client.Localize(context.Background(), server.URL+"/StormData.csv.bz2")
	require.NoError(t, err)
	assert.True(t, len(path) > 8)
	assert.Contains(t, path, ".csv.bz2")
}

func TestLocalize_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(t.TempDir(), time.Second, testLogger())

	_, err := client.Localize(context.Background(), server.URL+"/storms.csv")
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestLocalize_NoPartialLeftBehind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	client := NewClient(cacheDir, time.Second, testLogger())

	_, err := client.Localize(context.Background(), server.URL+"/storms.csv")
	require.Error(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
