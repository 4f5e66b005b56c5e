// Package ignore reads .ragfwignore files. Each line is a doublestar glob;
// blank lines and lines starting with "#" are skipped. A trailing "/" ignores
// a directory and everything under it, and a pattern without a "/" matches at
// any depth.
package ignore

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is looked up at the corpus root.
const FileName = ".ragfwignore"

type Matcher struct {
	patterns []string
}

// Load parses the ignore file at path. Missing files return an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (Matcher, error) {
	var m Matcher
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, compile(line)...)
	}
	return m, sc.Err()
}

func compile(p string) []string {
	dir := strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if !strings.Contains(p, "/") {
		p = "**/" + p
	}
	p = strings.TrimPrefix(p, "/")
	if dir {
		return []string{p + "/**"}
	}
	return []string{p, p + "/**"}
}

// Match reports whether the root-relative path is ignored.
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
