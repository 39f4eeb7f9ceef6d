package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
)

// run executes the folio command against root and returns its stdout.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	// Flag variables are package globals; reset them between invocations.
	verbose, rootPath = false, ""
	listJSON, listSummary, filterTag = false, false, ""
	readJSON = false
	createTitle, createParent = "", ""
	writeContent, writeTitle, writeSet = "", "", nil
	watchPattern = ""
	treeJSON = false
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--root", root}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWriteReadList(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, root, "write", "groceries", "--title", "Groceries", "--content", "- milk\n", "--set", "tags=home", "--set", "mood=calm")
	require.NoError(t, err)
	assert.Contains(t, out, "Note 'groceries' saved.")

	out, err = run(t, root, "read", "groceries")
	require.NoError(t, err)
	assert.Equal(t, "- milk\n", out)

	out, err = run(t, root, "read", "groceries", "--json")
	require.NoError(t, err)
	var note core.Note
	require.NoError(t, json.Unmarshal([]byte(out), &note))
	assert.Equal(t, "Groceries", note.Metadata.Title)
	assert.Equal(t, []string{"home"}, note.Metadata.Tags)
	assert.Equal(t, "calm", note.Metadata.Extra["mood"])
	assert.NotEmpty(t, note.Metadata.CreatedAt)

	// Partial update keeps the other fields.
	_, err = run(t, root, "write", "groceries", "--content", "- bread\n")
	require.NoError(t, err)
	out, err = run(t, root, "read", "groceries", "--json")
	require.NoError(t, err)
	var updated core.Note
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "- bread\n", updated.Content)
	assert.Equal(t, "Groceries", updated.Metadata.Title)
	assert.Equal(t, note.Metadata.CreatedAt, updated.Metadata.CreatedAt)

	_, err = run(t, root, "write", "other", "--content", "x")
	require.NoError(t, err)

	out, err = run(t, root, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "groceries\tGroceries")
	assert.Contains(t, out, "other\t")

	out, err = run(t, root, "list", "--tag", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "groceries")
	assert.NotContains(t, out, "other")

	out, err = run(t, root, "list", "--summary", "--json")
	require.NoError(t, err)
	var summaries []core.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	assert.Len(t, summaries, 2)
}

func TestWrite_InvalidSet(t *testing.T) {
	_, err := run(t, t.TempDir(), "write", "n", "--set", "novalue")
	assert.Error(t, err)
}

func TestCreateAndDelete(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, root, "create", "--title", "Inbox")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.Len(t, id, 36)
	assert.FileExists(t, filepath.Join(root, id+".md"))

	out, err = run(t, root, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	assert.NoFileExists(t, filepath.Join(root, id+".md"))

	_, err = run(t, root, "delete", id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRead_Missing(t *testing.T) {
	_, err := run(t, t.TempDir(), "read", "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestList_MissingRoot(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "missing"), "list")
	assert.Error(t, err)
}

func TestTree(t *testing.T) {
	root := t.TempDir()

	_, err := run(t, root, "write", "trip", "--title", "Trip")
	require.NoError(t, err)
	_, err = run(t, root, "write", "packing", "--title", "Packing", "--set", "parentId=trip")
	require.NoError(t, err)
	_, err = run(t, root, "write", "stray", "--title", "Stray", "--set", "parentId=gone")
	require.NoError(t, err)

	out, err := run(t, root, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, " Trip (trip)\n   Packing (packing)\n")
	assert.Contains(t, strings.Split(out, "\n"), " Stray (stray)", "orphans sit at the top level")

	out, err = run(t, root, "tree", "--json")
	require.NoError(t, err)
	var nodes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	assert.Len(t, nodes, 2)
}

func TestTheme(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, root, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = run(t, root, "theme", "light")
	require.NoError(t, err)

	out, err = run(t, root, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = run(t, root, "theme", "neon")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, root, "write", "a", "--content", "x")
	require.NoError(t, err)

	out, err := run(t, root, "status")
	require.NoError(t, err)

	var state map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.EqualValues(t, 1, state["workspace"]["notes"])
	assert.Equal(t, root, state["store"]["root"])
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "folio version "))
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
