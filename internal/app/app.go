package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rase/internal/appcore"
	"rase/internal/cli"
	"rase/internal/version"
	"rase/internal/writers"
)

const name = "rase-quantify"

// usageError marks command-line and config failures (exit 2).
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func newCommand(outw io.Writer, stderr io.Writer, code *int) *cobra.Command {
	var opts cli.Options
	cmd := &cobra.Command{
		Use:   name + " [flags] " + cli.Usage,
		Short: "Tree-propagated, time-windowed quantification of nanopore read assignments",
		Long: `Reads a phylogeny and a read-sorted SAM/BAM stream of ProPhyle assignments,
propagates every read's evidence to the leaf isolates below its targets and
writes a cumulative per-isolate table at each window boundary plus a final one.

Version: ` + version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Finish(cmd.Flags(), args, &opts); err != nil {
				return usageError{err}
			}
			if opts.Version {
				_, err := fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
				return err
			}
			*code = appcore.Run(cmd.Context(), outw, stderr, appcore.Options{
				TreePath:  opts.TreePath,
				AlignPath: opts.AlignPath,
				StatsPath: opts.StatsPath,
				Config:    opts.Config,
			})
			return nil
		},
	}
	cmd.SetOut(outw)
	cmd.SetErr(stderr)
	cmd.Flags().SortFlags = false
	cli.Register(cmd.Flags(), &opts)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	return cmd
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := 0
	cmd := newCommand(outw, stderr, &code)
	cmd.SetArgs(argv)
	err := cmd.ExecuteContext(parent)

	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		var ue usageError
		if errors.As(err, &ue) {
			_, _ = fmt.Fprint(stderr, cmd.UsageString())
			return 2
		}
		if writers.IsBrokenPipe(err) {
			return 0
		}
		return 3
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
