package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ly/cli/cmd"
	"github.com/ardnew/ly/log"
	"github.com/ardnew/ly/pkg"
)

// CLI is the top-level command-line interface for ly.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	NoStd bool     `help:"Do not load the standard module."`
	Path  []string `help:"Directory searched for imports before those in ${pathEnv}." placeholder:"DIR" short:"I" type:"path"`

	Version kong.VersionFlag `help:"Print the version and exit."`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run a program (default)."`
	AST  cmd.AST  `cmd:""                    help:"Print the syntax tree of a program."`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session."`
}

// Run executes the ly CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version": pkg.Name + " " + pkg.Version() + "\n" + authors(),
		"pathEnv": pkg.PathEnv,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolveYAML, configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cmd.Settings{
		NoStd:    cli.NoStd,
		Path:     cli.Path,
		CacheDir: cacheDir(),
		Logger:   log.Default(),
	})

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}

// authors lists [pkg.Author] one per line.
func authors() string {
	lines := make([]string, len(pkg.Author))
	for i, a := range pkg.Author {
		lines[i] = a.String()
	}

	return strings.Join(lines, "\n")
}
