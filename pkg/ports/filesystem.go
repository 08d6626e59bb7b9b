package ports

import "io"

// FileSystem abstracts the file operations used by sinks and the CLI.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating parent directories if necessary.
	WriteFile(path string, data []byte) error

	// Create opens a file for streaming writes, truncating any existing file.
	Create(path string) (io.WriteCloser, error)

	// Open opens a file for streaming reads.
	Open(path string) (io.ReadCloser, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)
}
