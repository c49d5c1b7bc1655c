package textio

import (
	"io"
	"os"

	"github.com/google/renameio"
)

// CleanupWriteCloser is an output whose content only becomes visible once it
// is successfully closed. Cleanup discards an unclosed output; it is safe to
// defer Cleanup right after creating one.
type CleanupWriteCloser interface {
	io.WriteCloser
	Cleanup() error
}

// Create returns an output for the named file that atomically replaces the
// file on Close. The name "" or "-" selects stdout, which is written
// directly.
func Create(name string) (CleanupWriteCloser, error) {
	if name == "" || name == "-" {
		return stdout{os.Stdout}, nil
	}
	pf, err := renameio.TempFile("", name)
	if err != nil {
		return nil, err
	}
	return &pendingFile{PendingFile: pf}, nil
}

type pendingFile struct {
	*renameio.PendingFile
	closed bool
}

func (pf *pendingFile) Close() error {
	if pf.closed {
		return nil
	}
	err := pf.CloseAtomicallyReplace()
	pf.closed = err == nil
	return err
}

func (pf *pendingFile) Cleanup() error {
	if pf.closed {
		return nil
	}
	pf.closed = true
	return pf.PendingFile.Cleanup()
}

type stdout struct{ *os.File }

func (stdout) Close() error   { return nil }
func (stdout) Cleanup() error { return nil }
