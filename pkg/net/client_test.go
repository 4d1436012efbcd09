package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPClient(t *testing.T) {
	client, err := GetHTTPClient()
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.NotNil(t, client.Jar)
}

func TestPrintHTTPResponse_Nil(t *testing.T) {
	// should not panic
	PrintHTTPResponse(nil)
}

func TestPrintHTTPResponse_WithResponse(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{},
		Body:       http.NoBody,
	}
	// should not panic
	PrintHTTPResponse(resp)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://stringdb-downloads.org/x.txt.gz"))
	assert.True(t, IsRemote("HTTP://example.com/a"))
	assert.False(t, IsRemote("./data/ppi.tsv"))
	assert.False(t, IsRemote("ftp://example.com/a"))
}

func newFileServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/missing.tsv" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/broken.tsv" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("A\tB\t0.9\n"))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_LocalPath(t *testing.T) {
	p, err := Fetch(context.Background(), "local.tsv", t.TempDir(), false)
	require.NoError(t, err)
	assert.Equal(t, "local.tsv", p)
}

func TestFetch_DownloadsOnce(t *testing.T) {
	srv, hits := newFileServer(t)
	dir := t.TempDir()

	p, err := Fetch(context.Background(), srv.URL+"/ppi.tsv", dir, false)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(p))
	assert.Contains(t, filepath.Base(p), "-ppi.tsv")

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "A\tB\t0.9\n", string(b))

	p2, err := Fetch(context.Background(), srv.URL+"/ppi.tsv", dir, false)
	require.NoError(t, err)
	assert.Equal(t, p, p2)
	assert.Equal(t, 1, *hits)

	_, err = Fetch(context.Background(), srv.URL+"/ppi.tsv", dir, true)
	require.NoError(t, err)
	assert.Equal(t, 2, *hits)
}

func TestDownload_Errors(t *testing.T) {
	srv, _ := newFileServer(t)
	dir := t.TempDir()

	err := Download(context.Background(), srv.URL+"/missing.tsv", filepath.Join(dir, "m.tsv"))
	assert.ErrorIs(t, err, ErrorURLNotFound)

	target := filepath.Join(dir, "b.tsv")
	err = Download(context.Background(), srv.URL+"/broken.tsv", target)
	assert.Error(t, err)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(target + partSuffix)
	assert.True(t, os.IsNotExist(statErr))
}
