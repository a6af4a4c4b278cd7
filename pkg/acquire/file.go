package acquire

import (
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
)

// File is a user supplied file with its declared media type
type File interface {
	Name() string
	Type() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a file on the local filesystem, typed by its extension
type LocalFile string

// Name of the file
func (f LocalFile) Name() string {
	return filepath.Base(string(f))
}

// Type declared by the extension
func (f LocalFile) Type() string {
	return mime.TypeByExtension(filepath.Ext(string(f)))
}

// Open the file for reading
func (f LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// Part is an uploaded multipart file
type Part struct {
	*multipart.FileHeader
}

// Name of the uploaded file
func (p Part) Name() string {
	return p.Filename
}

// Type declared by the uploader
func (p Part) Type() string {
	return p.Header.Get("Content-Type")
}

// Open the uploaded content
func (p Part) Open() (io.ReadCloser, error) {
	return p.FileHeader.Open()
}

// Parts wraps uploaded headers
func Parts(headers []*multipart.FileHeader) []File {
	output := make([]File, len(headers))
	for i, header := range headers {
		output[i] = Part{header}
	}

	return output
}

// DropZone tracks a drag and drop target. Drag events are consumed so the browser never navigates to the dropped file.
type DropZone struct {
	mutex    sync.RWMutex
	dragging bool
}

// DragOver marks the zone as hovered
func (d *DropZone) DragOver() {
	d.setDragging(true)
}

// DragLeave clears the hover mark
func (d *DropZone) DragLeave() {
	d.setDragging(false)
}

// Drop clears the hover mark and keeps only the first dropped file
func (d *DropZone) Drop(files []File) (File, bool) {
	d.setDragging(false)

	if len(files) == 0 {
		return nil, false
	}

	return files[0], true
}

// Dragging reports if a drag is hovering the zone
func (d *DropZone) Dragging() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.dragging
}

func (d *DropZone) setDragging(value bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.dragging = value
}
