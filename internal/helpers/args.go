// Package helpers holds small CLI utilities shared by jellybrowse commands.
package helpers

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrOpenListFile indicates opening an id list file failed.
	ErrOpenListFile = errors.New("failed to open list file")
	// ErrScanListFile indicates reading an id list file failed.
	ErrScanListFile = errors.New("failed to scan list file")
)

// ListFileSuffix marks a command argument as a file of ids, one per line.
const ListFileSuffix = ".txt"

// ReadLines returns the non-empty, non-comment lines of a text file.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrOpenListFile, path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrScanListFile, path, err)
	}
	return lines, nil
}

// ExpandArgs replaces every .txt argument with the ids listed in it and
// drops repeats, keeping first-seen order. Ids compare case-insensitively.
func ExpandArgs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(id string) {
		key := strings.ToLower(id)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}

	files := make(map[string]struct{})
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if !strings.HasSuffix(arg, ListFileSuffix) {
			if arg != "" {
				add(arg)
			}
			continue
		}
		if _, ok := files[arg]; ok {
			continue
		}
		files[arg] = struct{}{}
		lines, err := ReadLines(arg)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			add(line)
		}
	}
	return out, nil
}
