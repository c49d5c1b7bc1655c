package wikipage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DirStore reads pages from a MoinMoin wiki directory. Each page lives in
// pages/<quoted name>/ below the data directory, with its revisions in
// revisions/00000001 and up, and the number of the current revision in the
// file current.
type DirStore struct {
	// Dir is the wiki directory, or its data directory.
	Dir string

	// Charset names the encoding of the page files; "" means UTF-8.
	Charset string
}

func (ds DirStore) pagesDir() string {
	data := filepath.Join(ds.Dir, "data")
	if info, err := os.Stat(data); err == nil && info.IsDir() {
		return filepath.Join(data, "pages")
	}
	return filepath.Join(ds.Dir, "pages")
}

// Open reads revision rev of the named page.
func (ds DirStore) Open(name string, rev int) (*Page, error) {
	if rev < 0 {
		return nil, fmt.Errorf("invalid revision %d", rev)
	}
	pageDir := filepath.Join(ds.pagesDir(), QuoteName(name))
	if rev == 0 {
		b, err := os.ReadFile(filepath.Join(pageDir, "current"))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notExist(name, 0)
		} else if err != nil {
			return nil, err
		}
		cur, err := strconv.Atoi(strings.TrimSpace(string(b)))
		if err != nil {
			return nil, fmt.Errorf("invalid current revision of page %q: %w", name, err)
		}
		page, err := ds.read(name, pageDir, cur)
		if errors.Is(err, ErrNotExist) {
			// the current revision of a deleted page is missing
			return nil, notExist(name, 0)
		}
		return page, err
	}
	return ds.read(name, pageDir, rev)
}

func (ds DirStore) read(name, pageDir string, rev int) (*Page, error) {
	b, err := os.ReadFile(filepath.Join(pageDir, "revisions", fmt.Sprintf("%08d", rev)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notExist(name, rev)
	} else if err != nil {
		return nil, err
	}
	text, err := Decode(b, ds.Charset)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", name, err)
	}
	return Parse(name, rev, text), nil
}

// Pages returns the names of the pages whose current revision exists,
// sorted. Directories that are not quoted page names are skipped.
func (ds DirStore) Pages() ([]string, error) {
	entries, err := os.ReadDir(ds.pagesDir())
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		name, err := unquoteName(ent.Name())
		if err != nil {
			continue
		}
		if _, err := ds.Open(name, 0); errors.Is(err, ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// QuoteName returns the directory name MoinMoin keeps the named page in:
// runs of characters other than ASCII letters, digits and underscores become
// their UTF-8 bytes in hex within parentheses.
func QuoteName(name string) string {
	return unsafeRun.ReplaceAllStringFunc(name, func(run string) string {
		return "(" + hex.EncodeToString([]byte(run)) + ")"
	})
}

var quotedRun = regexp.MustCompile(`\(([0-9a-fA-F]*)\)`)

// unquoteName reverses QuoteName.
func unquoteName(quoted string) (string, error) {
	var err error
	name := quotedRun.ReplaceAllStringFunc(quoted, func(run string) string {
		b, herr := hex.DecodeString(run[1 : len(run)-1])
		if herr != nil && err == nil {
			err = fmt.Errorf("invalid quoted page name %q: %w", quoted, herr)
		}
		return string(b)
	})
	if err != nil {
		return "", err
	}
	parts := quotedRun.Split(quoted, -1)
	for _, part := range parts {
		if strings.ContainsAny(part, "()") {
			return "", fmt.Errorf("invalid quoted page name %q", quoted)
		}
	}
	return name, nil
}

// FileStore reads a single page from a file, or stdin when Path is "-".
// It has no older revisions.
type FileStore struct {
	Path    string
	Charset string
	Stdin   io.Reader
}

// Open reads the page, naming it name.
func (fst FileStore) Open(name string, rev int) (*Page, error) {
	if rev != 0 {
		return nil, notExist(name, rev)
	}
	var b []byte
	var err error
	if fst.Path == "-" {
		in := fst.Stdin
		if in == nil {
			in = os.Stdin
		}
		b, err = io.ReadAll(in)
	} else {
		b, err = os.ReadFile(fst.Path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notExist(name, 0)
		}
	}
	if err != nil {
		return nil, err
	}
	text, err := Decode(b, fst.Charset)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", name, err)
	}
	return Parse(name, 0, text), nil
}

// MemStore keeps pages in memory. It is safe for concurrent use.
type MemStore struct {
	mu    sync.Mutex
	pages map[string][]string
}

// Put adds text as the new current revision of the named page, returning
// its revision number.
func (ms *MemStore) Put(name, text string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.pages == nil {
		ms.pages = make(map[string][]string)
	}
	ms.pages[name] = append(ms.pages[name], text)
	return len(ms.pages[name])
}

// Open returns revision rev of the named page.
func (ms *MemStore) Open(name string, rev int) (*Page, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	revs := ms.pages[name]
	if rev == 0 {
		rev = len(revs)
	}
	if rev < 1 || rev > len(revs) {
		return nil, notExist(name, rev)
	}
	return Parse(name, rev, revs[rev-1]), nil
}
