package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/pinga/packages/output"
)

var errUsage = errors.New("invalid usage")

type rootOptions struct {
	silent         bool
	excludeHeaders bool
	version        bool

	// set when cobra took its help path, which reports success
	helpShown bool

	stdout io.Writer
	stderr io.Writer
}

// newRootCmd builds the pinga command writing to the streams in opts.
func newRootCmd(opts *rootOptions) *cobra.Command {
	usage := func() error {
		output.NewConsoleFormatter(output.WithWriter(opts.stderr)).FormatUsage()
		return exitError(ExitFailure, errUsage)
	}

	cmd := &cobra.Command{
		Use:   "pinga <config.json>",
		Short: "Send one HTTP request described by a JSON file",
		Long: `pinga reads a JSON description of a single HTTP request (url, method,
path_params, query_params, headers, payload or payload_file), sends it,
and prints the response as one JSON document on stdout.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprint(opts.stdout, versionLine())
				return nil
			}
			if len(args) != 1 {
				return usage()
			}
			return runRequest(cmd.Context(), opts, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(opts.stdout)
	cmd.SetErr(opts.stderr)
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error {
		return usage()
	})
	// -h and --help are not pinga flags; they get the usage line and exit 1
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		opts.helpShown = true
		_ = usage()
	})

	cmd.Flags().BoolVar(&opts.silent, "silent", false, "Discard the response and report the outcome through the exit code")
	cmd.Flags().BoolVar(&opts.excludeHeaders, "exclude-response-headers", false, "Print only the raw response body")
	cmd.Flags().BoolVar(&opts.version, "version", false, "Print the version and exit")

	return cmd
}

// Run executes pinga with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(opts)
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		if opts.helpShown {
			return ExitFailure
		}
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	output.NewConsoleFormatter(output.WithWriter(stderr)).FormatError(err.Error())
	return ExitFailure
}

func Execute(v string) {
	version = v

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}
