// Package utils provides small filesystem helpers used by the CLI.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (and any parents) if it doesn't already exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

// FileExtension returns a filename's extension without the leading dot,
// lowercased.
func FileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsMediaFile reports whether filename has an extension this module
// knows how to conform: any PhotoResizer format plus mp4/mov for video.
func IsMediaFile(filename string) bool {
	switch FileExtension(filename) {
	case "jpg", "jpeg", "png", "webp", "mp4", "mov":
		return true
	default:
		return false
	}
}

// OutputPath derives an output filename from inputPath, placing it in
// outputDir with suffix inserted before the extension and format
// overriding the extension when non-empty.
func OutputPath(inputPath, outputDir, suffix, format string) string {
	base := filepath.Base(inputPath)
	nameWithoutExt := strings.TrimSuffix(base, filepath.Ext(base))

	if format == "" {
		format = FileExtension(inputPath)
		if format == "" {
			format = "jpg"
		}
	}

	return filepath.Join(outputDir, fmt.Sprintf("%s%s.%s", nameWithoutExt, suffix, format))
}

// ListMediaFiles recursively lists every media file (per IsMediaFile)
// under dir.
func ListMediaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && IsMediaFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// FileExists reports whether filename exists and is a regular file.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
