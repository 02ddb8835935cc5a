// functions with side effect
package helper

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/group/all"
	"github.com/gobwas/glob"

	"github.com/sagan/sdmeta/util"
)

// Glob meta chars. '{' is included though brace expansion is not implemented.
const globMetas = "*?[{"

// Recognize "*.png" style glob, return parsed filenames.
// Args without glob meta chars (including "-") are kept as is.
func ParseFilenameArgs(args ...string) []string {
	names := []string{}
	for _, arg := range args {
		if !strings.ContainsAny(arg, globMetas) {
			names = append(names, arg)
			continue
		}
		filenames := ParseGlobFilenames(arg)
		if filenames == nil {
			names = append(names, arg)
		} else {
			names = append(names, filenames...)
		}
	}
	names = util.UniqueSlice(names)
	return names
}

// ParseGlobFilenames expands a shell-like glob pattern (e.g. "*.png") into
// matching filenames on disk.
//
// Notes / behavior:
//   - Returns matches sorted lexicographically.
//   - If there are no matches (or pattern is invalid), returns nil.
//   - For relative patterns, results are relative to the current working dir.
//   - This does NOT implement full bash features (brace expansion, extglob, etc.).
func ParseGlobFilenames(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	// Expand "~/" (common shell convenience).
	if strings.HasPrefix(pattern, "~/") || pattern == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			if pattern == "~" {
				pattern = home
			} else {
				pattern = filepath.Join(home, pattern[2:])
			}
		}
	}

	// Normalize to slash for matching; use '/' as separator for gobwas/glob.
	patSlash := filepath.ToSlash(pattern)

	g, err := glob.Compile(patSlash, '/')
	if err != nil {
		return nil
	}

	walkRoot := computeWalkRoot(pattern)
	isAbs := filepath.IsAbs(pattern)

	var matches []string
	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Ignore unreadable dirs/files.
			return nil
		}
		// images only
		if d.IsDir() {
			return nil
		}

		var target string
		if isAbs {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil
			}
			target = filepath.ToSlash(abs)
		} else {
			rel, err := filepath.Rel(".", path)
			if err != nil {
				return nil
			}
			target = filepath.ToSlash(rel)
		}

		if !dotfileOK(patSlash, target) {
			return nil
		}

		if g.Match(target) {
			// Return in the same "style" as input: abs stays abs; rel stays rel.
			if isAbs {
				matches = append(matches, filepath.Clean(target))
			} else {
				matches = append(matches, filepath.Clean(filepath.FromSlash(target)))
			}
		}
		return nil
	})

	sort.Strings(matches)
	return matches
}

func computeWalkRoot(pattern string) string {
	// Find the longest prefix before any glob metachar.
	prefix := pattern
	if i := strings.IndexAny(pattern, globMetas); i >= 0 {
		prefix = pattern[:i]
	}

	// Root should be a directory: chop to last separator in the non-meta prefix.
	prefixDir := prefix
	lastSep := strings.LastIndexAny(prefixDir, `/\`)
	if lastSep >= 0 {
		prefixDir = prefixDir[:lastSep+1]
	} else {
		prefixDir = ""
	}

	if prefixDir == "" {
		return "."
	}
	return filepath.Clean(prefixDir)
}

// Very small approximation of shell rule:
// if a path segment begins with '.' then pattern segment should also begin with '.' to match it.
func dotfileOK(patternSlash, targetSlash string) bool {
	pSeg := strings.Split(patternSlash, "/")
	tSeg := strings.Split(targetSlash, "/")

	// best-effort alignment: allow the match check if segments differ
	if len(pSeg) != len(tSeg) {
		return true
	}

	for i := range tSeg {
		if strings.HasPrefix(tSeg[i], ".") && !strings.HasPrefix(pSeg[i], ".") {
			return false
		}
	}
	return true
}

var handler *sprout.DefaultHandler

// sprout provided template funcs
var templateFuncs map[string]any

func init() {
	handler = sprout.New()
	handler.AddGroups(all.RegistryGroup())
	templateFuncs = handler.Build()
}

// Simple wrapper on Go text template.Template.
type Template struct {
	*template.Template
}

// Execute Go text template and return rendered string.
// The result string is trim spaced.
func (t *Template) Exec(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Get a Go text template instance from tpl string.
// If tpl starts with "@" char, treat it (the rest part after @) as a file name
// and read template contents from it instead.
func GetTemplate(tpl string, strict bool) (*Template, error) {
	if strings.HasPrefix(tpl, "@") {
		contents, err := os.ReadFile(tpl[1:])
		if err != nil {
			return nil, err
		}
		tpl = string(contents)
	}
	templateInstance := template.New("template").Funcs(templateFuncs)
	if strict {
		templateInstance = templateInstance.Option("missingkey=error")
	}
	t, err := templateInstance.Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &Template{Template: t}, nil
}
