package wikipage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/moin2rst/internal/wikipage"
)

func TestSplitHeader(t *testing.T) {
	for _, tc := range []struct {
		name   string
		text   string
		header []string
		body   string
	}{
		{"no header", "Just text\n", nil, "Just text\n"},
		{"markdown heading", "# Title\n\ntext\n", nil, "# Title\n\ntext\n"},
		{"leading comment is no header", "## Sub\n", nil, "## Sub\n"},
		{
			"instructions",
			"#acl All:read\n## note\n#pragma section-numbers on\n\nBody\n",
			[]string{"#acl All:read", "## note", "#pragma section-numbers on"},
			"\nBody\n",
		},
		{"crlf", "#format wiki\r\nBody\r\n", []string{"#format wiki"}, "Body\r\n"},
		{"bom", "\uFEFF#acl x\nBody", []string{"#acl x"}, "Body"},
		{"only header", "#acl x", []string{"#acl x"}, ""},
		{"processor line ends header", "#acl x\n#!python\nprint(1)\n", []string{"#acl x"}, "#!python\nprint(1)\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			header, body := wikipage.SplitHeader(tc.text)
			assert.Equal(t, tc.header, header, "expected header")
			assert.Equal(t, tc.body, body, "expected body")
		})
	}
}

func TestQuoteName(t *testing.T) {
	for name, quoted := range map[string]string{
		"FrontPage":      "FrontPage",
		"Some Page":      "Some(20)Page",
		"My_Page":        "My_Page",
		"Parent/Child":   "Parent(2f)Child",
		"Ünïcode":        "(c39c)n(c3af)code",
		"a.b-c":          "a(2e)b(2d)c",
		"Help/On Topics": "Help(2f)On(20)Topics",
	} {
		assert.Equal(t, quoted, wikipage.QuoteName(name), "quoted %q", name)
		unquoted, err := wikipage.UnquoteName(quoted)
		if assert.NoError(t, err, "unquote %q", quoted) {
			assert.Equal(t, name, unquoted, "unquoted %q", quoted)
		}
	}

	_, err := wikipage.UnquoteName("bad(zz)")
	assert.Error(t, err, "expected invalid hex error")
	_, err = wikipage.UnquoteName("bad(2f")
	assert.Error(t, err, "expected unbalanced parenthesis error")
}

func writeRevision(t *testing.T, pagesDir, name string, rev int, text string) {
	dir := filepath.Join(pagesDir, wikipage.QuoteName(name), "revisions")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, strings.Repeat("0", 7)+string(rune('0'+rev))), []byte(text), 0644))
}

func writeCurrent(t *testing.T, pagesDir, name string, rev int) {
	dir := filepath.Join(pagesDir, wikipage.QuoteName(name))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "current"), []byte("0000000"+string(rune('0'+rev))+"\n"), 0644))
}

func TestDirStore(t *testing.T) {
	wiki := t.TempDir()
	pages := filepath.Join(wiki, "data", "pages")
	writeRevision(t, pages, "Help/Topic", 1, "#acl All:read\nfirst")
	writeRevision(t, pages, "Help/Topic", 2, "second")
	writeCurrent(t, pages, "Help/Topic", 2)
	writeRevision(t, pages, "Deleted", 1, "gone")
	writeCurrent(t, pages, "Deleted", 2)

	store := wikipage.DirStore{Dir: wiki}

	page, err := store.Open("Help/Topic", 0)
	require.NoError(t, err, "must open current revision")
	assert.Equal(t, &wikipage.Page{Name: "Help/Topic", Revision: 2, Body: "second"}, page)

	page, err = store.Open("Help/Topic", 1)
	require.NoError(t, err, "must open first revision")
	assert.Equal(t, []string{"#acl All:read"}, page.Header)
	assert.Equal(t, "first", page.Body)

	for _, tc := range []struct {
		name string
		rev  int
	}{
		{"Help/Topic", 3},
		{"Missing", 0},
		{"Deleted", 0},
	} {
		_, err = store.Open(tc.name, tc.rev)
		assert.ErrorIs(t, err, wikipage.ErrNotExist, "expected %q rev %v to not exist", tc.name, tc.rev)
	}

	writeRevision(t, pages, "Some Page", 1, "spaced")
	writeCurrent(t, pages, "Some Page", 1)
	require.NoError(t, os.MkdirAll(filepath.Join(pages, "junk(zz)"), 0755))
	names, err := store.Pages()
	require.NoError(t, err)
	assert.Equal(t, []string{"Help/Topic", "Some Page"}, names)
	assert.DirExists(t, filepath.Join(pages, "Some(20)Page"))

	// the data directory itself works as well
	page, err = wikipage.DirStore{Dir: filepath.Join(wiki, "data")}.Open("Help/Topic", 0)
	require.NoError(t, err)
	assert.Equal(t, "second", page.Body)
}

func TestDirStore_charset(t *testing.T) {
	wiki := t.TempDir()
	pages := filepath.Join(wiki, "pages")
	writeRevision(t, pages, "Caf", 1, "caf\xe9")
	writeCurrent(t, pages, "Caf", 1)

	page, err := wikipage.DirStore{Dir: wiki, Charset: "iso-8859-1"}.Open("Caf", 0)
	require.NoError(t, err)
	assert.Equal(t, "café", page.Body)

	_, err = wikipage.DirStore{Dir: wiki, Charset: "no-such-charset"}.Open("Caf", 0)
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	name := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(name, []byte("#language en\nHello"), 0644))

	page, err := wikipage.FileStore{Path: name}.Open("Hello", 0)
	require.NoError(t, err)
	assert.Equal(t, &wikipage.Page{Name: "Hello", Header: []string{"#language en"}, Body: "Hello"}, page)

	_, err = wikipage.FileStore{Path: name}.Open("Hello", 1)
	assert.ErrorIs(t, err, wikipage.ErrNotExist)

	_, err = wikipage.FileStore{Path: name + ".missing"}.Open("Hello", 0)
	assert.ErrorIs(t, err, wikipage.ErrNotExist)

	page, err = wikipage.FileStore{Path: "-", Stdin: strings.NewReader("from stdin")}.Open("In", 0)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", page.Body)
}

func TestMemStore(t *testing.T) {
	var ms wikipage.MemStore
	_, err := ms.Open("Page", 0)
	assert.ErrorIs(t, err, wikipage.ErrNotExist, "initial open should fail")
	assert.EqualError(t, err, `no page named "Page": page does not exist`)

	assert.Equal(t, 1, ms.Put("Page", "one"))
	assert.Equal(t, 2, ms.Put("Page", "two"))

	page, err := ms.Open("Page", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Revision)
	assert.Equal(t, "two", page.Body)

	page, err = ms.Open("Page", 1)
	require.NoError(t, err)
	assert.Equal(t, "one", page.Body)

	_, err = ms.Open("Page", 3)
	assert.EqualError(t, err, `no revision 3 of page named "Page": page does not exist`)
}

func TestValidCharset(t *testing.T) {
	assert.NoError(t, wikipage.ValidCharset(""))
	assert.NoError(t, wikipage.ValidCharset("UTF-8"))
	assert.NoError(t, wikipage.ValidCharset("iso-8859-15"))
	assert.Error(t, wikipage.ValidCharset("klingon"))
}
