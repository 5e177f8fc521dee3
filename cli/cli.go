package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sdfc/cli/cmd"
	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/log"
	"github.com/ardnew/sdfc/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// CLI is the top-level command-line interface for sdfc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Strict bool `help:"Reject duplicate parameters instead of warning." negatable:""`

	Build   cmd.Build   `cmd:"" default:"withargs" help:"Compile source to GLSL distance functions"`
	Watch   cmd.Watch   `cmd:""                    help:"Recompile source whenever it changes"`
	Serve   cmd.Serve   `cmd:""                    help:"Serve the latest compiled code over HTTP"`
	Edit    cmd.Edit    `cmd:""                    help:"Edit source with a live compiled preview"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format source or its geometry tree"`
	Probe   cmd.Probe   `cmd:""                    help:"Evaluate compiled distance functions at points"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the sdfc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log flags apply before parsing so that parse errors honor them.
	log.Config(cli.Log.scan(args)...)

	// Parse command line
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath("config.json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Parsed flags also include values from configuration files.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithCompileOptions(ctx,
		compiler.WithLogger(log.Default()),
		compiler.WithStrictParams(cli.Strict),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
