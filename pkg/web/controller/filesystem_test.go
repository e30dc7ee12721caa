// Copyright 2025 The paneld Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpanel/paneld/pkg/web/model"
)

func newFilesRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "logs"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "B.txt"), []byte("abc"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "zeta.log"), []byte("zz"), 0o644))
	return root
}

func setupFilesystemController(t *testing.T, root, query string) (*FilesystemController, *httptest.ResponseRecorder) {
	t.Helper()

	filesRoot = root
	ctx, w := newTestContext(http.MethodGet, "/api/files?"+query, nil)
	return NewFilesystemController(ctx), w
}

func TestListFilesOrdering(t *testing.T) {
	root := newFilesRoot(t)
	ctrl, w := setupFilesystemController(t, root, "path=.")

	ctrl.ListFiles()

	assert.Equal(t, http.StatusOK, w.Code)

	var entries []model.FileEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 5)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"conf", "logs", "a.txt", "B.txt", "zeta.log"}, names)

	assert.True(t, entries[0].IsDirectory)
	assert.True(t, entries[1].IsDirectory)
	assert.Zero(t, entries[0].SizeBytes)
	assert.Equal(t, uint64(3), entries[3].SizeBytes)
}

func TestListFilesPatternFilter(t *testing.T) {
	root := newFilesRoot(t)
	ctrl, w := setupFilesystemController(t, root, "path=.&pattern=*.txt")

	ctrl.ListFiles()

	assert.Equal(t, http.StatusOK, w.Code)

	var entries []model.FileEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "B.txt", entries[1].Name)
}

func TestListFilesInvalidPattern(t *testing.T) {
	root := newFilesRoot(t)
	ctrl, w := setupFilesystemController(t, root, "path=.&pattern=[")

	ctrl.ListFiles()

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeInvalidRequest, resp.Code)
}

// TestListFilesRejectsDotDot: the raw-path check fires before any filesystem
// access, so even "logs/../logs" is refused.
func TestListFilesRejectsDotDot(t *testing.T) {
	root := newFilesRoot(t)

	for _, raw := range []string{"..", "../..", "logs/../logs", "..%2Ffoo"} {
		ctrl, w := setupFilesystemController(t, root, "path="+raw)

		ctrl.ListFiles()

		assert.Equal(t, http.StatusForbidden, w.Code, "path %q", raw)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrorCodePathForbidden, resp.Code)
	}
}

func TestListFilesAbsolutePathOutsideRoot(t *testing.T) {
	root := newFilesRoot(t)
	outside := t.TempDir()
	ctrl, w := setupFilesystemController(t, root, "path="+outside)

	ctrl.ListFiles()

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodePathForbidden, resp.Code)
}

// TestListFilesSymlinkEscape: a symlink under the root pointing outside it
// must be caught after symlink resolution.
func TestListFilesSymlinkEscape(t *testing.T) {
	root := newFilesRoot(t)
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))

	ctrl, w := setupFilesystemController(t, root, "path=escape")

	ctrl.ListFiles()

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodePathForbidden, resp.Code)
}

func TestListFilesMissingDirectory(t *testing.T) {
	root := newFilesRoot(t)
	ctrl, w := setupFilesystemController(t, root, "path=missing")

	ctrl.ListFiles()

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeFileNotFound, resp.Code)
}

func TestListFilesDefaultsToRoot(t *testing.T) {
	root := newFilesRoot(t)
	ctrl, w := setupFilesystemController(t, root, "")

	ctrl.ListFiles()

	assert.Equal(t, http.StatusOK, w.Code)

	var entries []model.FileEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 5)
}

func TestResolveWithinRootAcceptsRootItself(t *testing.T) {
	root := newFilesRoot(t)

	resolved, err := resolveWithinRoot(root, ".")
	require.NoError(t, err)

	rootResolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, rootResolved, resolved)
}
