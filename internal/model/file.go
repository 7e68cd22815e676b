package model

import "strings"

// FileKind is the kind of a file entry.
type FileKind string

const (
	FileKindFile    FileKind = "file"
	FileKindDir     FileKind = "dir"
	FileKindSymlink FileKind = "symlink"
)

// FileEntry represents a single entry of a directory listing.
type FileEntry struct {
	Name  string   `json:"name"`
	Kind  FileKind `json:"kind"`
	Size  int64    `json:"size"`
	Mode  string   `json:"mode,omitempty"`
	MTime string   `json:"mtime"`
}

// FileListing is a paginated directory listing.
type FileListing struct {
	Entries    []FileEntry `json:"entries"`
	Total      int64       `json:"total"`
	Offset     int64       `json:"offset"`
	Limit      int64       `json:"limit"`
	NextOffset *int64      `json:"next_offset,omitempty"`
}

// PreviewMode is how a file should be previewed.
type PreviewMode string

const (
	PreviewModeImage  PreviewMode = "image"
	PreviewModeText   PreviewMode = "text"
	PreviewModeBinary PreviewMode = "binary"
)

// PreviewModeFor picks the preview mode from a content type header.
func PreviewModeFor(contentType string) PreviewMode {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return PreviewModeImage
	case strings.HasPrefix(ct, "text/"),
		strings.HasPrefix(ct, "application/json"),
		strings.HasPrefix(ct, "application/javascript"),
		strings.HasPrefix(ct, "application/xml"):
		return PreviewModeText
	}
	return PreviewModeBinary
}

// FilePreview is the fully accumulated content of a previewed file.
type FilePreview struct {
	Path        string
	ContentType string
	Mode        PreviewMode
	Data        []byte
}
