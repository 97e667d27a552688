package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalLibrary is a Library rooted in two directories: the (possibly
// read-only) video collection and a writable cover directory.
type LocalLibrary struct {
	videoRoot string
	coverDir  string
}

func NewLocalLibrary(videoRoot, coverDir string) (*LocalLibrary, error) {
	if err := os.MkdirAll(coverDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory: %w", err)
	}
	return &LocalLibrary{videoRoot: videoRoot, coverDir: coverDir}, nil
}

func (l *LocalLibrary) OpenVideo(relPath string) (io.ReadSeekCloser, error) {
	fullPath, err := l.resolve(l.videoRoot, relPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	return file, nil
}

// SaveCover stores an uploaded cover image under a fresh name and returns
// that name.
func (l *LocalLibrary) SaveCover(file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	fullPath := filepath.Join(l.coverDir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save cover: %w", err)
	}

	return filename, nil
}

func (l *LocalLibrary) OpenCover(name string) (io.ReadSeekCloser, error) {
	fullPath, err := l.resolve(l.coverDir, name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cover: %w", err)
	}
	return file, nil
}

func (l *LocalLibrary) DeleteCover(name string) error {
	fullPath, err := l.resolve(l.coverDir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete cover: %w", err)
	}
	return nil
}

func (l *LocalLibrary) resolve(root, relPath string) (string, error) {
	cleanPath := filepath.Clean(relPath)
	if strings.Contains(cleanPath, "..") || filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("invalid path")
	}
	return filepath.Join(root, cleanPath), nil
}
