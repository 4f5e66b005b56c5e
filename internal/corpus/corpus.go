// Package corpus loads a directory of text documents as artifacts for the
// query and index commands.
package corpus

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/ragfw/ragfw/internal/ignore"
	"github.com/ragfw/ragfw/internal/provenance"
	"github.com/ragfw/ragfw/internal/types"
)

// DefaultMaxBytes skips documents larger than 1 MiB.
const DefaultMaxBytes int64 = 1 << 20

type Options struct {
	// Include and Exclude are comma-separated doublestar globs matched
	// against slash-separated paths relative to the root.
	Include         string
	Exclude         string
	MaxBytes        int64
	DefaultExcludes bool
}

// Document is a loaded file.
type Document struct {
	Path string
	Text string
	Hash string
}

// Artifact returns the document as an artifact with source and hash
// metadata.
func (d Document) Artifact() types.Artifact {
	return types.Artifact{Text: d.Text, Metadata: map[string]any{"source": d.Path, "hash": d.Hash}}
}

// Load walks root and returns every eligible text file in lexical path order.
// Paths matched by root/.ragfwignore are skipped, as are unreadable entries.
func Load(ctx context.Context, root string, opts Options) ([]Document, error) {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	includes := parseGlobsList(opts.Include)
	excludes := parseGlobsList(opts.Exclude)
	ig, err := ignore.Load(filepath.Join(root, ignore.FileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var docs []Document
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != root && opts.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if rel == ignore.FileName || ig.Match(rel) {
			return nil
		}
		if !allowedByGlobs(rel, includes, excludes) {
			return nil
		}
		info, _ := d.Info()
		if info != nil && info.Size() > opts.MaxBytes {
			return nil
		}
		if opts.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		if looksBinary(b) || looksNonTextMIME(rel, b) {
			return nil
		}
		text := string(b)
		docs = append(docs, Document{Path: rel, Text: text, Hash: provenance.HashText(text)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func allowedByGlobs(rel string, includes, excludes []string) bool {
	if len(includes) > 0 && !matchAnyGlob(rel, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rel, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(path string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME uses the file extension and a tiny content sniff to skip
// media and archives that contain no NUL in their first bytes.
func looksNonTextMIME(path string, b []byte) bool {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip") {
			return true
		}
	}
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	if len(b) >= 4 && b[0] == 'P' && b[1] == 'K' {
		return true
	}
	return false
}
