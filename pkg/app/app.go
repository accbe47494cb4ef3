// Package app provides a small cobra.Command scaffold shared by the
// project's binaries: wire an Options implementation into flags,
// validate and complete it, then hand off to a RunFunc.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ditef/router/pkg/utils/cliflag"
	"github.com/ditef/router/pkg/version"
)

// RunFunc is invoked once flags have been parsed, validated, and
// completed. basename is the binary's own name, handy for log prefixes.
type RunFunc func(basename string) error

// App is a named cobra command with the standard options lifecycle
// (Flags -> Validate -> Complete -> RunFunc) wired in.
type App struct {
	name        string
	basename    string
	description string
	options     CliOptions
	runFunc     RunFunc
	validArgs   cobra.PositionalArgs
	cmd         *cobra.Command
}

// Option configures an App at construction time.
type Option func(*App)

// WithOptions attaches the CLI options object whose Flags() populate
// the command's flag set.
func WithOptions(opts CliOptions) Option {
	return func(a *App) { a.options = opts }
}

// WithDescription sets the command's long description.
func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

// WithRunFunc sets the function invoked after flags are parsed and
// validated.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) { a.runFunc = run }
}

// WithDefaultValidArgs rejects any positional arguments, the default
// for a server binary that takes none.
func WithDefaultValidArgs() Option {
	return func(a *App) { a.validArgs = cobra.NoArgs }
}

// NewApp builds an App named name for the binary basename, applying
// every Option in order.
func NewApp(name, basename string, opts ...Option) *App {
	a := &App{name: name, basename: basename}
	for _, opt := range opts {
		opt(a)
	}
	a.cmd = a.buildCommand()
	return a
}

func (a *App) buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           a.basename,
		Short:         a.name,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.validArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printVersion, _ := cmd.Flags().GetBool("version"); printVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
				return nil
			}
			return a.run()
		},
	}
	cmd.SetOut(os.Stdout)
	cmd.Flags().SortFlags = false

	if a.options != nil {
		namedFlagSets := a.options.Flags()
		addVersionFlag(namedFlagSets.FlagSet("global"))
		namedFlagSets.AddFlagSet(cmd.Flags())
	}

	return cmd
}

func addVersionFlag(fs *pflag.FlagSet) {
	if fs.Lookup("version") == nil {
		fs.Bool("version", false, "Print version information and quit")
	}
}

func (a *App) run() error {
	if a.options != nil {
		if errs := a.options.Validate(); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintln(os.Stderr, err)
			}
			return fmt.Errorf("%d option validation error(s)", len(errs))
		}
		if completable, ok := a.options.(CompletableOptions); ok {
			if err := completable.Complete(); err != nil {
				return err
			}
		}
	}

	if a.runFunc == nil {
		return nil
	}
	return a.runFunc(a.basename)
}

// Run parses os.Args and executes the command, exiting the process
// with a non-zero status on error.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
