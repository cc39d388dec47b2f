package gen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"mirror-generator/internal/common"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	// Create output directory if it doesn't exist
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// CheckReport lists the differences between freshly generated files and
// the files on disk.
type CheckReport struct {
	// Missing files are generated but absent from disk.
	Missing []string
	// Stale files exist but their content differs below the header.
	Stale []string
	// Drifted files were written by another generator version.
	Drifted []string
	// Orphaned files carry a generator header but are no longer generated.
	Orphaned []string
}

// Clean reports whether the files on disk match the generated ones.
func (r *CheckReport) Clean() bool {
	return common.IsEmpty(r.Missing) && common.IsEmpty(r.Stale) &&
		common.IsEmpty(r.Drifted) && common.IsEmpty(r.Orphaned)
}

var headerPattern = regexp.MustCompile(`^# Generated by (\S+) version: (\S+)$`)

// ParseHeader extracts the tool and version from a generated file's first
// line.
func ParseHeader(content []byte) (tool, version string, ok bool) {
	line, _, _ := bytes.Cut(content, []byte("\n"))

	m := headerPattern.FindSubmatch(bytes.TrimRight(line, "\r"))
	if m == nil {
		return "", "", false
	}

	return string(m[1]), string(m[2]), true
}

// Check compares files with the content of outputDir without writing
// anything.
func Check(files []GeneratedFile, outputDir string) (*CheckReport, error) {
	report := &CheckReport{}
	generated := map[string]bool{}

	var tool string

	for _, file := range files {
		generated[file.Filename] = true

		wantTool, wantVersion, _ := ParseHeader(file.Content)
		tool = wantTool

		onDisk, err := os.ReadFile(filepath.Join(outputDir, file.Filename))
		if errors.Is(err, fs.ErrNotExist) {
			report.Missing = append(report.Missing, file.Filename)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file.Filename, err)
		}

		if _, gotVersion, ok := ParseHeader(onDisk); ok && gotVersion != wantVersion {
			report.Drifted = append(report.Drifted, file.Filename)
		}

		if !bytes.Equal(body(onDisk), body(file.Content)) {
			report.Stale = append(report.Stale, file.Filename)
		}
	}

	orphans, err := orphaned(outputDir, tool, generated)
	if err != nil {
		return nil, err
	}

	report.Orphaned = orphans

	return report, nil
}

// body returns content without its first line.
func body(content []byte) []byte {
	_, rest, _ := bytes.Cut(content, []byte("\n"))
	return rest
}

func orphaned(dir, tool string, generated map[string]bool) ([]string, error) {
	if tool == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var out []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".py") || generated[e.Name()] {
			continue
		}

		first, err := firstLine(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		if t, _, ok := ParseHeader([]byte(first)); ok && t == tool {
			out = append(out, e.Name())
		}
	}

	slices.Sort(out)

	return out, nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return sc.Text(), nil
	}

	return "", sc.Err()
}
