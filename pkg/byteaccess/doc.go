// Package byteaccess reads and writes byte ranges of a file or of another
// process's memory through one interface.
//
// A Context owns an open resource and hands out ByteAccess views. Within a
// view, offsets are relative: views over the same data behave identically
// wherever that data actually lives.
//
//	var ctx byteaccess.Context
//	if location == "file" {
//		ctx, err = byteaccess.Open("file.txt")
//	} else {
//		ctx, err = byteaccess.Attach("process")
//	}
//	defer ctx.Close()
//
//	foo, err := ctx.ByteAccess(offset, size)
//	err = foo.WriteBytes(0, []byte("somedata"))
//	data, err := foo.ReadBytes(4, 4) // "data"
//
// Every view checks its own bounds before touching the resource. A
// FileContext additionally refuses views that extend past the end of the
// file; a MemContext cannot know the extent of the target's address space,
// so a bad address only surfaces on the read or write itself.
//
// Nothing is buffered and nothing is locked. Concurrent use of one Context
// must be serialized by the caller.
package byteaccess
