package jobdesc

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

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("  We need a Go engineer.\n"), 0o644))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "We need a Go engineer.", text)
}

func TestFromFile_Errors(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("   \n"), 0o644))
	_, err = FromFile(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><script>track();</script></head><body>
			<nav>Home | Jobs</nav>
			<div class="job-description"><h1>Backend Engineer</h1><p>Build Go services.</p></div>
			<footer>© Acme</footer>
		</body></html>`))
	}))
	defer srv.Close()

	text, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Build Go services.")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "© Acme")
}

func TestFetch_FallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Just a plain page.</p></body></html>`))
	}))
	defer srv.Close()

	text, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Just a plain page.", text)
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := Fetch(context.Background(), "not-a-url")
	assert.Error(t, err)
	_, err = Fetch(context.Background(), "")
	assert.Error(t, err)
}
