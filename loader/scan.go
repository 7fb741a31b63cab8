package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/vk/plugtree/tmpl"
)

// pathPattern matches config file references inside raw document text.
// Anchoring on the trailing newline keeps surrounding punctuation out
// of the captured path, so quoted references are not picked up.
var pathPattern = regexp.MustCompile(`[^\s]+[^\/\n\\.\s]+\.ya?ml\n`)

// ScanVariables reports every template variable named in the config
// file at path or in any config file it references, without requiring
// values for them. Referenced files that do not exist are skipped, and
// files are visited at most once, so reference cycles terminate. Names
// come back sorted and deduplicated.
func ScanVariables(path string) ([]string, error) {
	names := make(map[string]struct{})
	seen := make(map[string]struct{})
	queue := []string{path}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, done := seen[current]; done {
			continue
		}
		seen[current] = struct{}{}

		raw, err := os.ReadFile(current)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read config file %s: %w", current, err)
		}
		text := string(raw) + "\n"

		for _, name := range tmpl.Tokens(text) {
			names[name] = struct{}{}
		}

		dir := filepath.Dir(current)
		for _, match := range pathPattern.FindAllString(text, -1) {
			ref := strings.TrimSpace(match)
			if !filepath.IsAbs(ref) {
				ref = filepath.Join(dir, ref)
			}
			queue = append(queue, ref)
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
