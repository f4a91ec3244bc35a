package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

const (
	Vendor = "redcorn"
	App    = "redasm"
)

// Cmd is the shared skeleton of every subcommand: config file defaults,
// common flags, a logger, and error reporting.
type Cmd struct {
	Config *models.Config
	Log    *log.Logger
	Flags  *flag.FlagSet

	// Args names the positional arguments in the usage line.
	Args       string
	MinArgs    int
	SetupFlags func() error
	RunCmd     func(args []string) error

	Stdout io.Writer
	Stderr io.Writer
}

func NewCmd(name string) *Cmd {
	return &Cmd{
		Flags:  flag.NewFlagSet(name, flag.ContinueOnError),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (c *Cmd) PrintError(err error) {
	// print an error, and a stacktrace if available
	fmt.Fprintf(c.Stderr, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(c.Stderr, "Error: %s\n", err)
	if err, ok := err.(stackTracer); ok {
		var frames [][]string
		for _, f := range err.StackTrace() {
			fileline := fmt.Sprintf("%s:%d", f, f)
			method := fmt.Sprintf("%n", f)
			frames = append(frames, []string{fileline, method})
			if method == "main" {
				break
			}
		}
		width := 0
		for _, f := range frames {
			if len(f[0]) > width {
				width = len(f[0])
			}
		}
		for _, f := range frames {
			fmt.Fprintf(c.Stderr, "%-*s | %s()\n", width, f[0], f[1])
		}
	}
}

// Run parses argv and runs the command. It returns the process exit code.
func (c *Cmd) Run(argv []string) int {
	config, err := models.LoadConfig(Vendor, App)
	if err != nil {
		c.PrintError(err)
		return 1
	}
	c.Config = config

	fs := c.Flags
	fs.SetOutput(c.Stderr)
	verbose := fs.Bool("v", config.Verbose, "debug logging")
	color := fs.Bool("color", config.Color || isatty.IsTerminal(os.Stdout.Fd()), "colorize output")
	fs.Usage = func() {
		fmt.Fprintf(c.Stderr, "Usage: %s [options] %s\n\nOptions:\n", argv[0], c.Args)
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		PrintFlags(c.Stderr, flags)
	}
	if c.SetupFlags != nil {
		if err := c.SetupFlags(); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	if err := fs.Parse(argv[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() < c.MinArgs {
		fs.Usage()
		return 2
	}
	config.Verbose = *verbose
	config.Color = *color
	c.Log = NewLogger(c.Stderr, config.Verbose)

	if err := c.RunCmd(fs.Args()); err != nil {
		if status, ok := models.IsExit(err); ok {
			return int(status)
		}
		c.PrintError(err)
		return 1
	}
	return 0
}
