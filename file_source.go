package iterate

import (
	"fmt"
	"os"
)

// FileSource re-reads one named file from offset 0 on every tick. Procfs and
// sysfs counters regenerate their contents per open, so the file is opened
// fresh each capture rather than held and rewound.
type FileSource struct {
	filename string
}

// NewFileSource returns a source that samples the named file.
func NewFileSource(filename string) *FileSource {
	return &FileSource{filename: filename}
}

// Name identifies this source in diagnostics.
func (fs *FileSource) Name() string { return "file" }

// Prepare verifies the file is readable now, so a bad path fails the run
// before the loop starts instead of producing N empty snapshots.
func (fs *FileSource) Prepare() error {
	buf := make([]byte, BufferSize)
	if _, err := fs.Capture(buf); err != nil {
		return err
	}
	return nil
}

// Capture opens the file, reads until EOF or buf is full, and closes it.
func (fs *FileSource) Capture(buf []byte) (int, error) {
	f, err := os.Open(fs.filename)
	if err != nil {
		return 0, fmt.Errorf("%w: open %q: %v", ErrSourceUnavailable, fs.filename, err)
	}
	defer f.Close()

	size := 0
	for size < len(buf) {
		n, err := f.Read(buf[size:])
		size += n
		if err != nil {
			break
		}
	}
	if size == 0 {
		return 0, fmt.Errorf("%w: read %q: no data", ErrSourceUnavailable, fs.filename)
	}
	return size, nil
}

// BufferSize reports the working-buffer capacity for file sampling.
func (fs *FileSource) BufferSize() int { return BufferSize }

// Close is a no-op: Capture leaves no handle open between ticks.
func (fs *FileSource) Close() error { return nil }
