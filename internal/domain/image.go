package domain

import "time"

// Image is a single board entry: a record in postgres plus a binary
// payload in the object store at StoragePath.
//
// Position defines display order inside a board. Values are unique per
// board but not necessarily contiguous.
//
// Everything from MimeType down is descriptive metadata. It is carried
// verbatim when an image is copied between boards and never interpreted.
type Image struct {
	ID               string    `json:"id"`
	BoardID          string    `json:"boardId"`
	StoragePath      string    `json:"storagePath"`
	Position         int64     `json:"position"`
	MimeType         string    `json:"mimeType,omitempty"`
	Width            int       `json:"width,omitempty"`
	Height           int       `json:"height,omitempty"`
	SizeBytes        int64     `json:"sizeBytes,omitempty"`
	OriginalFilename string    `json:"originalFilename,omitempty"`
	SourceURL        string    `json:"sourceUrl,omitempty"`
	Caption          string    `json:"caption,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
