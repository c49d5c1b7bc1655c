package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/moin2rst/internal/wikipage"
)

func makeWiki(t *testing.T) string {
	wiki := t.TempDir()
	page := filepath.Join(wiki, "data", "pages", wikipage.QuoteName("Front Page"))
	require.NoError(t, os.MkdirAll(filepath.Join(page, "revisions"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(page, "revisions", "00000001"), []byte("#acl All:read\nHello *wiki*\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(page, "current"), []byte("00000001\n"), 0644))
	return wiki
}

func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	wd, werr := os.Getwd()
	require.NoError(t, werr)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestConvertPage(t *testing.T) {
	wiki := makeWiki(t)
	out, _, err := runCmd(t, "", "-d", wiki, "Front Page")
	require.NoError(t, err)
	assert.Equal(t, "#format rst\n#acl All:read\n\nHello *wiki*\n\n", out)
}

func TestConvertPage_missing(t *testing.T) {
	wiki := makeWiki(t)
	_, _, err := runCmd(t, "", "-d", wiki, "Nope")
	assert.EqualError(t, err, `no page named "Nope": page does not exist`)

	_, _, err = runCmd(t, "", "-d", wiki, "-r", "2", "Front Page")
	assert.ErrorIs(t, err, wikipage.ErrNotExist)
}

func TestConvertPage_inputOutput(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.rst")
	out, _, err := runCmd(t, "* item\n", "-i", "-", "-o", dest, "-p", "goldmark", "Stdin")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "#format rst\n\n* item\n\n", string(data))
}

func TestConvertPage_badFlags(t *testing.T) {
	_, _, err := runCmd(t, "", "-u", "http://%/%", "Page")
	assert.ErrorContains(t, err, "at most one '%'")

	_, _, err = runCmd(t, "", "-p", "pandoc", "Page")
	assert.ErrorContains(t, err, "invalid parser")

	_, _, err = runCmd(t, "")
	assert.Error(t, err, "expected a page argument")
}

func TestListPages(t *testing.T) {
	wiki := makeWiki(t)
	out, _, err := runCmd(t, "", "list", "-d", wiki)
	require.NoError(t, err)
	assert.Equal(t, "Front Page\n", out)

	_, _, err = runCmd(t, "", "list", "-d", filepath.Join(wiki, "nope"))
	assert.ErrorContains(t, err, "failed to list pages")
}

func TestConfigInit(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "moin2rst.yaml")
	out, _, err := runCmd(t, "", "config", "init", "-d", "/srv/wiki", dest)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+dest+"\n", out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "directory: /srv/wiki\n")

	_, _, err = runCmd(t, "", "config", "init", dest)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = runCmd(t, "", "--config", dest, "config", "init", "--force", dest)
	assert.NoError(t, err)
}
