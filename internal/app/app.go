// Package app implements the email-prune-css command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"bennypowers.dev/emailprune/internal/config"
	"bennypowers.dev/emailprune/internal/log"
	"bennypowers.dev/emailprune/internal/version"
	"bennypowers.dev/emailprune/prune"
)

// Name is the executable name.
const Name = "email-prune-css"

// stdio stands for standard input or output in place of a file name.
const stdio = "-"

var (
	errOutputAndInPlace = errors.New("--output and --in-place are mutually exclusive")
	errOutputMultiple   = errors.New("--output needs exactly one input")
	errInPlaceStdin     = errors.New("--in-place needs file arguments, not standard input")
	errVerboseAndQuiet  = errors.New("--verbose and --quiet are mutually exclusive")
)

// New returns the root command. Standard streams come from the command's
// Reader, Writer and ErrWriter so callers can redirect them.
func New() *cli.Command {
	return &cli.Command{
		Name:                      Name,
		Usage:                     "remove unused CSS from HTML email templates",
		Version:                   version.GetFullVersion(),
		ArgsUsage:                 "[FILE ...]",
		HideHelpCommand:           true,
		DisableSliceFlagSeparator: true,
		Before:                    before,
		After:                     after,
		Action:                    run,
		ExitErrHandler:            exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load options from `FILE` (JSON, JSONC, YAML or package.json)"},
			&cli.StringSliceFlag{Name: "whitelist", Aliases: []string{"w"}, Usage: "never delete selectors matching `PATTERN` (glob, repeatable)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the result to `FILE` instead of standard output"},
			&cli.BoolFlag{Name: "in-place", Aliases: []string{"i"}, Usage: "rewrite each input file"},
			&cli.StringFlag{Name: "report", Usage: "write a JSON report of removed selectors to `FILE`"},
			&cli.BoolFlag{Name: "check", Usage: "report markup problems found by an HTML parser"},
			&cli.BoolFlag{Name: "verbose", Usage: "log every pipeline stage"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
		},
	}
}

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log.SetOutput(cmd.Root().ErrWriter)
	switch verbose, quiet := cmd.Bool("verbose"), cmd.Bool("quiet"); {
	case verbose && quiet:
		return ctx, errVerboseAndQuiet
	case verbose:
		log.SetLevel(log.LevelDebug)
	case quiet:
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
	return ctx, nil
}

func after(context.Context, *cli.Command) error {
	log.Sync()
	return nil
}

// exitErrHandler replaces the urfave/cli default, which exits the process on
// aggregated errors. Exiting is left to main.
func exitErrHandler(_ context.Context, _ *cli.Command, err error) {
	log.Error("Program ended with error: %v", err)
}

func run(ctx context.Context, cmd *cli.Command) (err error) {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{stdio}
	}

	output, inPlace := cmd.String("output"), cmd.Bool("in-place")
	switch {
	case output != "" && inPlace:
		return errOutputAndInPlace
	case output != "" && len(inputs) > 1:
		return errOutputMultiple
	case inPlace && slices.Contains(inputs, stdio):
		return errInPlaceStdin
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	defer func(start time.Time) {
		log.Debug("Processed %d input(s) in %s", len(inputs), time.Since(start))
	}(time.Now())

	var reports []FileReport
	for _, input := range inputs {
		if er := ctx.Err(); er != nil {
			err = multierr.Append(err, er)
			break
		}
		report, er := processFile(cmd, input, output, inPlace, opts)
		if er != nil {
			log.Error("Unable to process %s: %v", displayName(input), er)
			err = multierr.Append(err, fmt.Errorf("%s: %w", displayName(input), er))
			continue
		}
		reports = append(reports, report)
	}

	if path := cmd.String("report"); path != "" {
		if er := writeReport(path, reports); er != nil {
			err = multierr.Append(err, er)
		}
	}
	return err
}

// loadOptions merges the config file with --whitelist patterns, which are
// appended to the file's whitelist.
func loadOptions(cmd *cli.Command) (prune.Options, error) {
	var (
		opts   prune.Options
		source string
		err    error
	)
	if source = cmd.String("config"); source != "" {
		opts, err = config.Load(source)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return opts, fmt.Errorf("unable to get working directory: %w", err)
		}
		opts, source, err = config.Discover(wd)
	}
	if err != nil {
		return opts, fmt.Errorf("unable to load configuration: %w", err)
	}
	if source != "" {
		log.Debug("Using configuration from %s", source)
	}

	opts = opts.Merge(prune.Options{Whitelist: cmd.StringSlice("whitelist")})
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func processFile(cmd *cli.Command, input, output string, inPlace bool, opts prune.Options) (FileReport, error) {
	src, err := readInput(cmd.Root().Reader, input)
	if err != nil {
		return FileReport{}, err
	}

	res, err := prune.Prune(src, opts)
	if err != nil {
		return FileReport{}, err
	}

	report := newFileReport(displayName(input), src, res)
	if cmd.Bool("check") {
		report.Problems = check(displayName(input), src)
	}

	switch {
	case inPlace:
		err = writeInPlace(input, res.HTML)
	case output != "" && output != stdio:
		err = os.WriteFile(output, []byte(res.HTML), 0o644) //nolint:gosec // G306: output is a regular document
	default:
		_, err = io.WriteString(cmd.Root().Writer, res.HTML)
	}
	if err != nil {
		return FileReport{}, fmt.Errorf("unable to write result: %w", err)
	}

	log.Info("%s: removed %d selector(s) from style blocks and %d from attributes, %d -> %d bytes",
		report.File, len(res.DeletedFromHead), len(res.DeletedFromBody), report.BytesBefore, report.BytesAfter)
	return report, nil
}

func readInput(stdin io.Reader, input string) (string, error) {
	if input == stdio {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(input) //nolint:gosec // G304: user supplied input path
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return string(data), nil
}

// writeInPlace keeps the permissions of the original file.
func writeInPlace(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

func displayName(input string) string {
	if input == stdio {
		return "<stdin>"
	}
	return input
}
