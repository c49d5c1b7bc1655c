package textio

import (
	"bytes"
	"io"
)

// Fragments streams text fragments into a writer in whole lines: a fragment
// is held until a later one completes its line, so the writer never sees a
// partial line before Close. The first write error sticks: later fragments
// are dropped and Close returns it.
type Fragments struct {
	w   io.Writer
	buf bytes.Buffer
	err error
}

// NewFragments returns a Fragments writing to w.
func NewFragments(w io.Writer) *Fragments {
	return &Fragments{w: w}
}

// WriteString buffers s, flushing any completed lines.
func (fr *Fragments) WriteString(s string) (int, error) {
	if fr.err != nil {
		return 0, fr.err
	}
	n, _ := fr.buf.WriteString(s)
	return n, fr.flushLines()
}

// Write buffers p, flushing any completed lines.
func (fr *Fragments) Write(p []byte) (int, error) {
	if fr.err != nil {
		return 0, fr.err
	}
	n, _ := fr.buf.Write(p)
	return n, fr.flushLines()
}

// flushLines writes the buffer through its last newline.
func (fr *Fragments) flushLines() error {
	b := fr.buf.Bytes()
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		fr.write(b[:i+1])
	}
	return fr.err
}

func (fr *Fragments) write(p []byte) {
	n, err := fr.w.Write(p)
	fr.buf.Next(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	fr.err = err
}

// Err returns the first write error, if any.
func (fr *Fragments) Err() error { return fr.err }

// Close flushes any final partial line.
func (fr *Fragments) Close() error {
	if fr.err == nil && fr.buf.Len() > 0 {
		fr.write(fr.buf.Bytes())
	}
	return fr.err
}
