// Command moin2rst converts a wiki page to reStructuredText.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jcorbin/moin2rst/internal/action"
	"github.com/jcorbin/moin2rst/internal/config"
	"github.com/jcorbin/moin2rst/internal/convert"
	"github.com/jcorbin/moin2rst/internal/textio"
	"github.com/jcorbin/moin2rst/internal/wikipage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "moin2rst:", err)
		os.Exit(1)
	}
}

// app carries what every command needs once flags are parsed.
type app struct {
	configFile string
	input      string

	cfg *config.Config
	log zerolog.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
	if cfg.File != "" {
		a.log.Debug().Str("file", cfg.File).Msg("loaded config")
	}
	return nil
}

func (a *app) store(stdin io.Reader) wikipage.Store {
	if a.input != "" {
		return wikipage.FileStore{Path: a.input, Charset: a.cfg.Encoding, Stdin: stdin}
	}
	return wikipage.DirStore{Dir: a.cfg.Directory, Charset: a.cfg.Encoding}
}

func (a *app) options() convert.Options {
	return convert.Options{
		Parser:     a.cfg.Parser,
		URLSchemes: a.cfg.URLSchemes,
		Logger:     &a.log,
	}
}

func addConvertFlags(flags *pflag.FlagSet, a *app) {
	def := config.Default()
	flags.StringP("directory", "d", def.Directory, "directory where the wiki lives")
	flags.IntP("revision", "r", def.Revision, "revision of the page to fetch (1-based, 0 for the current one)")
	flags.StringP("url-template", "u", def.URLTemplate, "template for page URLs; its single '%' is replaced by the page name, and assumed at the end if missing")
	flags.StringP("parser", "p", def.Parser, fmt.Sprintf("markdown parser reading pages %v", convert.Parsers()))
	flags.StringP("encoding", "e", def.Encoding, "charset of the page files")
	flags.StringSlice("url-scheme", def.URLSchemes, "additional URL scheme recognized for bare links (repeatable)")
	flags.StringVarP(&a.input, "input", "i", "", "read the page from this file instead of the wiki (- for stdin)")
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "moin2rst [flags] <page>",
		Short: "Convert a wiki page to reStructuredText",
		Long: `Convert a wiki page to reStructuredText.

The page named <page> is read from the wiki directory (or from --input) and
written to stdout (or --output).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, args[0])
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "configuration file (default "+config.FileName+" in the working directory or a parent)")
	pf.String("log-level", config.Default().LogLevel, "log level (debug, info, warn, error)")
	addConvertFlags(pf, a)
	root.Flags().StringP("output", "o", config.Default().Output, "file to write to (- for stdout)")

	root.AddCommand(newListCmd(a), newServeCmd(a), newConfigCmd(a))
	return root
}

func (a *app) convert(cmd *cobra.Command, name string) error {
	page, err := a.store(cmd.InOrStdin()).Open(name, a.cfg.Revision)
	if errors.Is(err, wikipage.ErrNotExist) {
		return err
	} else if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	if a.cfg.Output == "" || a.cfg.Output == "-" {
		return convert.Convert(cmd.OutOrStdout(), page, a.options())
	}
	file, err := textio.Create(a.cfg.Output)
	if err != nil {
		return err
	}
	defer file.Cleanup()
	if err := convert.Convert(file, page, a.options()); err != nil {
		return err
	}
	return file.Close()
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the pages of the wiki directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := wikipage.DirStore{Dir: a.cfg.Directory, Charset: a.cfg.Encoding}.Pages()
			if err != nil {
				return fmt.Errorf("failed to list pages: %w", err)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve wiki pages as reStructuredText over HTTP",
		Long: `Serve wiki pages as reStructuredText over HTTP.

GET /<page>?action=rst redirects to the page's format action;
GET /<page>?action=format&mimetype=text/x-rst serves the converted page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return action.Serve(ctx, a.log, a.cfg.Listen, &action.Handler{
				Store:       a.store(cmd.InOrStdin()),
				URLTemplate: a.cfg.URLTemplate,
				Options:     a.options(),
			})
		},
	}
	cmd.Flags().String("listen", config.Default().Listen, "address to listen on")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a file (default " + config.FileName + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to replace it", path)
			}
			if err := a.cfg.WriteFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "replace an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
