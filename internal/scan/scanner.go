// Package scan walks the media library on disk and diffs it against the
// cataloged scene paths.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var videoExts = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mkv":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
}

type Scanner struct {
	root string
}

func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// ListVideoFiles returns every video file under the library root as a
// slash-separated path relative to it, sorted.
func (s *Scanner) ListVideoFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := videoExts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// Report is the outcome of diffing disk against catalog.
type Report struct {
	// Uncataloged are files on disk with no scene row.
	Uncataloged []string
	// Missing are cataloged paths with no file on disk.
	Missing []string
	// Total is the number of video files found on disk.
	Total int
}

// Diff compares the on-disk library with the cataloged scene paths.
func (s *Scanner) Diff(cataloged []string) (*Report, error) {
	onDisk, err := s.ListVideoFiles()
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(cataloged))
	for _, p := range cataloged {
		known[p] = struct{}{}
	}

	report := &Report{Total: len(onDisk)}
	seen := make(map[string]struct{}, len(onDisk))
	for _, p := range onDisk {
		seen[p] = struct{}{}
		if _, ok := known[p]; !ok {
			report.Uncataloged = append(report.Uncataloged, p)
		}
	}
	for _, p := range cataloged {
		if _, ok := seen[p]; !ok {
			report.Missing = append(report.Missing, p)
		}
	}
	sort.Strings(report.Missing)
	return report, nil
}
