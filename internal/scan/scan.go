// Package scan locates the res/layout directory an analyzer run should
// target inside each application source tree.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExcludes are directory names pruned during candidate discovery.
// F-Droid checkouts carry VCS metadata that must never be treated as an
// application resource tree.
var DefaultExcludes = []string{".hg", ".git", ".svn"}

// Outcome is the result of scanning one project directory. A project yields
// either exactly one selected layout directory or none.
type Outcome struct {
	Project    string   // project directory as enumerated under the root
	Layout     string   // selected layout directory, empty when none qualified
	Values     []string // discovered res/values directories, deepest first
	Candidates int      // number of res/layout candidates considered
}

// Found reports whether a non-empty layout directory was selected.
func (o Outcome) Found() bool { return o.Layout != "" }

// Projects returns the immediate child directories of root in the order the
// filesystem enumeration yields them. A missing or unreadable root degrades
// to an empty batch; the error is returned so callers can warn.
func Projects(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read source root: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	return dirs, nil
}

// LayoutCandidates walks dir and collects every directory whose last two
// path segments are res/layout, sorted in descending lexicographic order of
// the full path. Variant directories such as res/layout-v21 never match.
func LayoutCandidates(dir string, excludes []string) ([]string, error) {
	return candidates(dir, "layout", excludes)
}

// ValuesCandidates collects res/values directories the same way, for
// analyzer modes that accept a companion values path.
func ValuesCandidates(dir string, excludes []string) ([]string, error) {
	return candidates(dir, "values", excludes)
}

func candidates(dir, leaf string, excludes []string) ([]string, error) {
	skip := make(map[string]struct{}, len(excludes))
	for _, e := range excludes {
		skip[e] = struct{}{}
	}

	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Broken app trees (dangling symlinks, permission holes) are
			// skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if _, ok := skip[name]; ok {
			return filepath.SkipDir
		}
		if strings.HasPrefix(name, ".") && path != dir {
			return filepath.SkipDir
		}
		if name == leaf && filepath.Base(filepath.Dir(path)) == "res" {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// SelectLayout picks the first candidate, in the given order, that directly
// contains at least one entry. An empty candidate list short-circuits
// without touching the filesystem.
func SelectLayout(candidates []string) (string, bool) {
	for _, c := range candidates {
		entries, err := os.ReadDir(c)
		if err != nil {
			continue
		}
		if len(entries) >= 1 {
			return c, true
		}
	}
	return "", false
}

// Project scans one project directory and returns its Outcome. The function
// is pure with respect to the batch: it carries no state across calls.
func Project(dir string, excludes []string) (Outcome, error) {
	o := Outcome{Project: dir}

	layouts, err := LayoutCandidates(dir, excludes)
	if err != nil {
		return o, err
	}
	o.Candidates = len(layouts)
	if sel, ok := SelectLayout(layouts); ok {
		o.Layout = sel
	}

	values, err := ValuesCandidates(dir, excludes)
	if err != nil {
		return o, err
	}
	o.Values = values
	return o, nil
}
