// Package dirlist caches discovered layout and values directories so repeat
// batch runs over a large repository can skip the filesystem walk.
package dirlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/resweep/resweep/internal/scan"
)

// Version tags the cache format.
const Version = "resweep.dirlist/v1"

// Entry holds the discovered directories for one project.
type Entry struct {
	Project string   `json:"project"`
	Layouts []string `json:"layouts"`
	Values  []string `json:"values,omitempty"`
}

// List is a cached discovery pass over one source root.
type List struct {
	Version string  `json:"version"`
	Root    string  `json:"root"`
	Entries []Entry `json:"entries"`
}

// Build walks every project under root and records its candidates. The
// per-project ordering matches what a live scan would use.
func Build(root string, excludes []string) (List, error) {
	projects, err := scan.Projects(root)
	if err != nil {
		return List{}, err
	}
	l := List{Version: Version, Root: root}
	for _, p := range projects {
		layouts, err := scan.LayoutCandidates(p, excludes)
		if err != nil {
			return List{}, err
		}
		values, err := scan.ValuesCandidates(p, excludes)
		if err != nil {
			return List{}, err
		}
		l.Entries = append(l.Entries, Entry{Project: p, Layouts: layouts, Values: values})
	}
	return l, nil
}

// Outcomes replays the cached candidates through layout selection, giving
// the same per-project outcomes a live scan would produce for unchanged
// trees.
func (l List) Outcomes() []scan.Outcome {
	out := make([]scan.Outcome, 0, len(l.Entries))
	for _, e := range l.Entries {
		o := scan.Outcome{Project: e.Project, Values: e.Values, Candidates: len(e.Layouts)}
		if sel, ok := scan.SelectLayout(e.Layouts); ok {
			o.Layout = sel
		}
		out = append(out, o)
	}
	return out
}

// Write stores the list as JSON at path.
func Write(path string, l List) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dirlist directory: %w", err)
	}
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write dirlist: %w", err)
	}
	return nil
}

// Read loads a list previously written by Write.
func Read(path string) (List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return List{}, fmt.Errorf("read dirlist: %w", err)
	}
	var l List
	if err := json.Unmarshal(b, &l); err != nil {
		return List{}, fmt.Errorf("parse dirlist (%s): %w", filepath.Base(path), err)
	}
	if l.Version != Version {
		return List{}, fmt.Errorf("dirlist %s has version %q, want %q", filepath.Base(path), l.Version, Version)
	}
	return l, nil
}
