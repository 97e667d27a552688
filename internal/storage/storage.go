package storage

import (
	"io"
	"mime/multipart"
)

// Library gives access to the media collection on disk: the video files
// scenes point at (read-only, stored as relative paths) and the cover
// images the application manages itself.
type Library interface {
	OpenVideo(relPath string) (io.ReadSeekCloser, error)
	SaveCover(file multipart.File, originalName string) (string, error)
	OpenCover(name string) (io.ReadSeekCloser, error)
	DeleteCover(name string) error
}
