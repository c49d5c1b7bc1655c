package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/moin2rst/internal/config"
)

func chdir(t *testing.T, dir string) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate(), "defaults must be valid")
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestLoad_defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.File, "expected no config file")
	assert.Equal(t, ".", cfg.Directory)
	assert.Equal(t, "%", cfg.URLTemplate, "expected placeholder appended")
	assert.Equal(t, "blackfriday", cfg.Parser)
}

func TestLoad_precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
directory: /srv/wiki
revision: 3
url_template: http://wiki.example.com/
parser: goldmark
url_schemes: [svn, gopher]
log_level: debug
`), 0644))

	t.Setenv("MOIN2RST_REVISION", "5")
	t.Setenv("MOIN2RST_ENCODING", "iso-8859-1")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("directory", "d", ".", "")
	flags.StringP("parser", "p", "blackfriday", "")
	flags.IntP("revision", "r", 0, "")
	require.NoError(t, flags.Parse([]string{"-d", "/other"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "/other", cfg.Directory, "flag beats file")
	assert.Equal(t, 5, cfg.Revision, "environment beats file")
	assert.Equal(t, "goldmark", cfg.Parser, "file beats unset flag")
	assert.Equal(t, "iso-8859-1", cfg.Encoding)
	assert.Equal(t, []string{"svn", "gopher"}, cfg.URLSchemes)
	assert.Equal(t, "http://wiki.example.com/%", cfg.URLTemplate)
}

func TestLoad_found(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("listen: :9000\n"), 0644))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	chdir(t, sub)

	path, err := config.Find()
	require.NoError(t, err)
	assert.Equal(t, config.FileName, filepath.Base(path))

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
}

func TestLoad_errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err, "expected missing file error")

	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("parser: pandoc\n"), 0644))
	_, err = config.Load(path, nil)
	assert.ErrorContains(t, err, "invalid parser")
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*config.Config)
		want   string
	}{
		{"negative revision", func(c *config.Config) { c.Revision = -1 }, "revision cannot be negative"},
		{"two placeholders", func(c *config.Config) { c.URLTemplate = "http://%/%" }, "url_template must contain at most one '%'"},
		{"unknown parser", func(c *config.Config) { c.Parser = "pandoc" }, "invalid parser"},
		{"unknown encoding", func(c *config.Config) { c.Encoding = "klingon" }, "invalid encoding"},
		{"unknown level", func(c *config.Config) { c.LogLevel = "loud" }, "invalid log level 'loud'"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	cfg := config.Default()
	cfg.Directory = "/srv/wiki"
	cfg.URLSchemes = []string{"svn"}
	require.NoError(t, cfg.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "directory: /srv/wiki\n")
	assert.NotContains(t, string(data), "file:", "expected the source file to stay unwritten")

	loaded, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/wiki", loaded.Directory)
	assert.Equal(t, []string{"svn"}, loaded.URLSchemes)
}
