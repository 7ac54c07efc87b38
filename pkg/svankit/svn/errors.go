package svn

import "fmt"

// TruncationError reports a read that would run past the end of the input.
// Any truncation aborts the decode of the whole file; the cursor never
// zero-fills short reads.
type TruncationError struct {
	Offset int // byte offset at which the read started
	Need   int // bytes requested
	Left   int // bytes remaining
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("truncated svn stream: need %d bytes at offset %d, %d left", e.Need, e.Offset, e.Left)
}

// MalformedTrailerError reports a closing word other than FFFFh. It is
// advisory: the decoder still returns the DecodedFile with everything read
// before the trailer check.
type MalformedTrailerError struct {
	Got       uint16
	Truncated bool // trailer missing entirely
}

func (e *MalformedTrailerError) Error() string {
	if e.Truncated {
		return "svn trailer missing: expected ffff"
	}
	return fmt.Sprintf("malformed svn trailer: expected ffff, got %04x", e.Got)
}

// DataIntegrityWarning describes a non-zero guard word inside the buffer
// contents. The decoder logs it and keeps going; it is never returned as an
// error.
type DataIntegrityWarning struct {
	Sample  int
	Channel int
	Got     int16
}

func (w DataIntegrityWarning) String() string {
	return fmt.Sprintf("non-zero guard word %d at sample %d channel %d", w.Got, w.Sample, w.Channel)
}
