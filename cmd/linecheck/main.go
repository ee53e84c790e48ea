// Command linecheck sorts the lines of a raw log into ones the plotter would
// accept and ones it would reject, and says why.
package main

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"serialplot/drivers"
	"serialplot/parser"
)

type summary struct {
	Lines    int            `json:"lines"`
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
	Strict   int            `json:"strict"`
	Reasons  map[string]int `json:"reasons"`
	Widest   int            `json:"widest"`
}

type options struct {
	out         string
	onlyInvalid bool
	json        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "linecheck <file>",
		Short: "Check which lines of a raw log would be plotted",
		Long: `linecheck reads a raw log, or any file of "<tag>:<v1>,<v2>,..." lines, and
reports how many lines the plotter accepts and why the others are rejected.

Lines recorded with a timestamp prefix are checked without it.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			var filtered io.Writer
			if opts.out != "" {
				outFile, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer outFile.Close()
				writer := bufio.NewWriter(outFile)
				defer writer.Flush()
				filtered = writer
			}

			result, err := check(file, filtered, opts.onlyInvalid)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), result, opts.json)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the selected lines to this file")
	cmd.Flags().BoolVar(&opts.onlyInvalid, "only-invalid", false, "select rejected lines instead of accepted ones")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	return cmd
}

// check classifies every line of r. Selected lines are copied to filtered
// when it isn't nil.
func check(r io.Reader, filtered io.Writer, onlyInvalid bool) (*summary, error) {
	result := &summary{Reasons: map[string]int{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, drivers.INITIAL_LINE_BUFFER), drivers.MAX_LINE_LENGTH)
	for scanner.Scan() {
		_, line, _ := drivers.ParseRawLine(scanner.Text())
		result.Lines++

		tuple, err := parser.Parse(line)
		if err != nil {
			result.Rejected++
			result.Reasons[reason(err)]++
		} else {
			result.Accepted++
			result.Widest = max(result.Widest, len(tuple))
			if parser.Validate(line) == nil {
				result.Strict++
			}
		}

		if filtered != nil && (err != nil) == onlyInvalid {
			if _, err := io.WriteString(filtered, line+"\n"); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func reason(err error) string {
	for _, known := range []error{parser.ErrNoSeparator, parser.ErrEmptyPayload, parser.ErrNoNumbers, parser.ErrBadField} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

func report(w io.Writer, result *summary, asJSON bool) error {
	if asJSON {
		encoded, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}

	fmt.Fprintf(w, "%d lines, %d accepted (%d strictly valid), %d rejected\n",
		result.Lines, result.Accepted, result.Strict, result.Rejected)
	if result.Accepted > 0 {
		fmt.Fprintf(w, "widest line has %d values\n", result.Widest)
	}
	// Most frequent first, ties by name.
	reasons := slices.Sorted(maps.Keys(result.Reasons))
	slices.SortStableFunc(reasons, func(a, b string) int {
		return cmp.Compare(result.Reasons[b], result.Reasons[a])
	})
	for _, reason := range reasons {
		fmt.Fprintf(w, "  %6d  %s\n", result.Reasons[reason], reason)
	}
	return nil
}
