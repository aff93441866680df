package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const appName = "jingo"

// globalState carries everything a subcommand touches outside its own
// arguments, so tests can swap in an in-memory filesystem and buffers
// instead of the real process environment.
type globalState struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *logrus.Logger

	verbose bool
	noColor bool
}

func newGlobalState() *globalState {
	stdout := io.Writer(os.Stdout)
	stderr := io.Writer(os.Stderr)
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if tty {
		stdout = colorable.NewColorable(os.Stdout)
		stderr = colorable.NewColorable(os.Stderr)
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   !tty,
		DisableQuote:    true,
		TimestampFormat: "15:04:05",
	})
	logger.SetLevel(logrus.WarnLevel)

	return &globalState{
		fs:     afero.NewOsFs(),
		stdin:  os.Stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

func newRootCommand(gs *globalState) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Jingo language front end",
		Long:          "Tokenize, parse and format Jingo (.jno) sources.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if gs.verbose {
				gs.logger.SetLevel(logrus.DebugLevel)
			}
			if gs.noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVarP(&gs.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&gs.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		getLexCmd(gs),
		getParseCmd(gs),
		getFmtCmd(gs),
		getReplCmd(gs),
		getVersionCmd(gs),
	)
	return root
}

// Execute runs the root command against the real process environment.
func Execute() {
	gs := newGlobalState()
	if err := newRootCommand(gs).Execute(); err != nil {
		fmt.Fprintln(gs.stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}

// loadSource reads a source file through the state's filesystem; "-" reads
// standard input. The returned name is what diagnostics should display.
func (gs *globalState) loadSource(path string) (src, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(gs.stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := afero.ReadFile(gs.fs, path)
	if err != nil {
		return "", "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	gs.logger.WithField("bytes", len(data)).Debugf("loaded %s", path)
	return string(data), path, nil
}
