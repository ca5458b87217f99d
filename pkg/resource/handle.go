// Package resource provides the primitive capability every view delegates to:
// reads and writes of an exact byte count at an absolute offset of one open
// resource.
//
// Two production variants exist. File, in this package, issues positioned
// reads and writes against a descriptor. The process memory variant lives in
// package prowler. LocalMemory is a byte slice backed variant used in tests.
//
// Handles perform no bounds checking of their own beyond what the OS
// reports, and no retries. Failures are tagged with the kinds of package
// error.
package resource

// ReadWriter is the non-owning part of a Handle. Views hold only this.
type ReadWriter interface {
	// Read returns exactly length bytes starting at offset.
	Read(offset uint64, length int) ([]byte, error)
	// Write stores all of data starting at offset.
	Write(offset uint64, data []byte) error
}

// Handle is an open resource. The owner, and only the owner, calls Close.
type Handle interface {
	ReadWriter
	// Extent returns the current addressable size. bounded is false when the
	// size cannot be known up front, as for process memory.
	Extent() (size uint64, bounded bool, err error)
	// Name identifies the resource in errors and logs.
	Name() string
	Close() error
}
