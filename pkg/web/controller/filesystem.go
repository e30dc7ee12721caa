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
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"

	"github.com/openpanel/paneld/pkg/web/model"
)

// errOutsideRoot marks a resolved path that escapes the configured root.
var errOutsideRoot = errors.New("path escapes the files root")

// FilesystemController handles directory listing requests.
type FilesystemController struct {
	*basicController
}

func NewFilesystemController(ctx *gin.Context) *FilesystemController {
	return &FilesystemController{basicController: newBasicController(ctx)}
}

// ListFiles lists one directory. The raw path must not contain "..", and the
// resolved path (symlinks included) must stay inside the configured root;
// both violations are Forbidden. Unreadable directories are NotFound.
func (c *FilesystemController) ListFiles() {
	rawPath := c.ctx.DefaultQuery("path", ".")
	if strings.Contains(rawPath, "..") {
		c.RespondError(
			http.StatusForbidden,
			model.ErrorCodePathForbidden,
			"path must not contain '..'",
		)
		return
	}

	resolved, err := resolveWithinRoot(filesRoot, rawPath)
	if errors.Is(err, errOutsideRoot) {
		c.RespondError(
			http.StatusForbidden,
			model.ErrorCodePathForbidden,
			"path is outside the allowed root",
		)
		return
	}
	if err != nil {
		c.RespondError(
			http.StatusNotFound,
			model.ErrorCodeFileNotFound,
			fmt.Sprintf("directory is not readable. %v", err),
		)
		return
	}

	dirEntries, err := os.ReadDir(resolved)
	if err != nil {
		c.RespondError(
			http.StatusNotFound,
			model.ErrorCodeFileNotFound,
			fmt.Sprintf("directory is not readable. %v", err),
		)
		return
	}

	pattern := c.ctx.Query("pattern")
	entries := make([]model.FileEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if pattern != "" {
			match, err := doublestar.Match(pattern, dirEntry.Name())
			if err != nil {
				c.RespondError(
					http.StatusBadRequest,
					model.ErrorCodeInvalidRequest,
					fmt.Sprintf("invalid pattern %s: %v", pattern, err),
				)
				return
			}
			if !match {
				continue
			}
		}

		var size uint64
		if !dirEntry.IsDir() {
			if info, err := dirEntry.Info(); err == nil {
				size = uint64(info.Size())
			}
		}
		entries = append(entries, model.FileEntry{
			Name:        dirEntry.Name(),
			IsDirectory: dirEntry.IsDir(),
			SizeBytes:   size,
		})
	}

	sortFileEntries(entries)
	c.RespondSuccess(entries)
}

// sortFileEntries orders directories before files, then case-insensitive
// name ascending within each group.
func sortFileEntries(entries []model.FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDirectory != entries[j].IsDirectory {
			return entries[i].IsDirectory
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// resolveWithinRoot canonicalizes root and the requested path and confines
// the result to the root subtree. Symlinks are evaluated before the prefix
// check so a link pointing outside the root cannot slip through.
func resolveWithinRoot(root, rawPath string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid files root: %w", err)
	}
	rootResolved, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", fmt.Errorf("invalid files root: %w", err)
	}

	target := rawPath
	if !filepath.IsAbs(target) {
		target = filepath.Join(rootResolved, target)
	}

	resolved, err := filepath.EvalSymlinks(filepath.Clean(target))
	if err != nil {
		return "", err
	}

	if resolved != rootResolved &&
		!strings.HasPrefix(resolved, rootResolved+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return resolved, nil
}
