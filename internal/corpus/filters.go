package corpus

import "strings"

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
}

// suffixes of generated or bulky files that never hold retrievable prose
var defaultExcludeFileSuffixes = []string{
	".min.js", ".map",
	".lock", ".sum",
	".pdf", ".exe", ".dll", ".so", ".wasm", ".pyc",
	".sqlite", ".db",
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return strings.HasSuffix(lowerRel, ".jsonl") && strings.Contains(lowerRel, "audit")
}
