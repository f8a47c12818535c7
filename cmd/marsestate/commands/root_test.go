package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/marsestate/internal/config"
	"github.com/jask/marsestate/internal/listing"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	body := fmt.Sprintf("[api]\nbase_url = %q\ntimeout = \"2s\"\n\n[log]\nlevel = \"error\"\n", baseURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestListCommandEndToEnd(t *testing.T) {
	filters := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters <- r.URL.Query().Get("filter")
		_, _ = w.Write([]byte(`[{"price":8000000,"id":"424906","type":"buy","img_src":"http://mars.jpl.nasa.gov/b.jpg"}]`))
	}))
	t.Cleanup(srv.Close)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", writeConfig(t, srv.URL), "list", "--filter", "buy", "-o", "json"})
	require.NoError(t, root.Execute())

	require.Equal(t, "buy", <-filters)
	var got []listing.Listing
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "424906", got[0].ID)
}

func TestListCommandServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeConfig(t, srv.URL), "list"})
	require.ErrorIs(t, root.Execute(), listing.ErrFetchFailed)
}

func TestListCommandBadFilter(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeConfig(t, "http://127.0.0.1:1"), "list", "--filter", "lease"})
	require.ErrorContains(t, root.Execute(), "lease")
}

func TestRootMissingConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "list"})
	require.Error(t, root.Execute())
}

func TestConfigInitWritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marsestate", "config.toml")
	run := func(args ...string) error {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"--config", path}, args...))
		return root.Execute()
	}

	require.NoError(t, run("config", "init", "--default-filter", "rent"))
	got, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "rent", got.UI.DefaultFilter)
	require.Equal(t, "https://android-kotlin-fun-mars-server.appspot.com", got.API.BaseURL)

	require.ErrorContains(t, run("config", "init"), "already exists")

	require.NoError(t, run("config", "init", "--force"))
	got, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "all", got.UI.DefaultFilter)
}
