package textio_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/moin2rst/internal/textio"
)

type recordWriter struct {
	writes []string
	fail   error
}

func (rw *recordWriter) Write(p []byte) (int, error) {
	if rw.fail != nil {
		return 0, rw.fail
	}
	rw.writes = append(rw.writes, string(p))
	return len(p), nil
}

func TestFragments(t *testing.T) {
	var rw recordWriter
	fr := textio.NewFragments(&rw)
	for _, s := range []string{"*", " a", "\n\n", "* b\n", "tail"} {
		_, err := fr.WriteString(s)
		require.NoError(t, err, "must write %q", s)
	}
	assert.Equal(t, []string{"* a\n\n", "* b\n"}, rw.writes, "expected whole line writes")
	assert.NoError(t, fr.Close(), "expected clean close")
	assert.Equal(t, []string{"* a\n\n", "* b\n", "tail"}, rw.writes, "expected final partial line")
}

func TestFragments_error(t *testing.T) {
	boom := errors.New("boom")
	rw := recordWriter{fail: boom}
	fr := textio.NewFragments(&rw)
	_, err := fr.WriteString("line\n")
	assert.Equal(t, boom, err, "expected write error")
	_, err = fr.Write([]byte("more\n"))
	assert.Equal(t, boom, err, "expected sticky error")
	assert.Equal(t, boom, fr.Err())
	assert.Equal(t, boom, fr.Close())
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

func TestFragments_shortWrite(t *testing.T) {
	fr := textio.NewFragments(shortWriter{})
	_, err := fr.WriteString("line\n")
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.ErrorIs(t, fr.Close(), io.ErrShortWrite)
}

func TestFragments_noPartialLines(t *testing.T) {
	var sb strings.Builder
	fr := textio.NewFragments(&sb)
	_, err := fr.WriteString("abcd")
	require.NoError(t, err)
	assert.Empty(t, sb.String(), "expected partial line to be held")
	_, err = fr.WriteString("\nef")
	require.NoError(t, err)
	assert.Equal(t, "abcd\n", sb.String())
	require.NoError(t, fr.Close())
	assert.Equal(t, "abcd\nef", sb.String())
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "Page.rst")
	require.NoError(t, os.WriteFile(name, []byte("old"), 0644))

	t.Run("cleanup keeps old content", func(t *testing.T) {
		out, err := textio.Create(name)
		require.NoError(t, err, "must create")
		_, err = io.WriteString(out, "partial")
		require.NoError(t, err, "must write")
		assert.NoError(t, out.Cleanup(), "cleanup should succeed")
		b, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "old", string(b))
	})

	t.Run("close replaces", func(t *testing.T) {
		out, err := textio.Create(name)
		require.NoError(t, err, "must create")
		defer func() {
			assert.NoError(t, out.Cleanup(), "cleanup after close should be a no-op")
		}()
		_, err = io.WriteString(out, "new")
		require.NoError(t, err, "must write")
		require.NoError(t, out.Close(), "must close")
		b, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "new", string(b))
	})

	t.Run("stdout", func(t *testing.T) {
		out, err := textio.Create("-")
		require.NoError(t, err)
		assert.NoError(t, out.Close())
		assert.NoError(t, out.Cleanup())
	})
}
