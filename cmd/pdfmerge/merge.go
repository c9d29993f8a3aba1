package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/selection"
	"pdfmerge/internal/session"
	"pdfmerge/pkg/types"
)

func newMergeCmd(g *globals) *cobra.Command {
	var (
		output    string
		prefix    string
		order     string
		recursive bool
		include   []string
		exclude   []string
	)

	cmd := &cobra.Command{
		Use:   "merge [paths...]",
		Short: "Merge files and folders into one PDF",
		Long: `Merge the given files and folders into one PDF. Folders are expanded
into the supported files they contain. Files are merged in the order given
unless --order lists a different one, for example --order 3,1,2.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if output != "" {
				cfg.Output.Directory = output
			}
			if prefix != "" {
				cfg.Output.Prefix = prefix
			}
			if cmd.Flags().Changed("recursive") {
				cfg.Selection.Recursive = recursive
			}
			cfg.Selection.Include = append(cfg.Selection.Include, include...)
			cfg.Selection.Exclude = append(cfg.Selection.Exclude, exclude...)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			files, err := selection.Collect(ctx, args, selection.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sink := merge.FileSink{Dir: cfg.Output.Directory}
			sess := session.New(cfg, session.Funcs{
				OnProgress: func(percent int, message string) {
					log.LogWithFields(log.F("percent", percent)).Debug(message)
				},
			}, merge.WithSink(sink))
			if err := sess.SelectFiles(files); err != nil {
				return err
			}
			if order != "" {
				if err := applyOrder(sess, order); err != nil {
					return err
				}
			}

			res, err := sess.StartMerge(ctx)
			if res != nil {
				printOutcomes(out, res.Outcomes)
			}
			if err != nil {
				if errors.IsDeliveryFailed(err) {
					fmt.Fprintln(out, warningText("The PDF was created but could not be saved. Try again with a different --output."))
				}
				return err
			}
			fmt.Fprintln(out, successText(fmt.Sprintf("PDF created successfully! Saved %s (%s)",
				sink.Path(res.Artifact), humanize.Bytes(uint64(len(res.Artifact.Bytes))))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for the merged PDF (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "filename prefix of the merged PDF")
	cmd.Flags().StringVar(&order, "order", "", "comma separated positions giving the merge order, e.g. 3,1,2")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subfolders")
	cmd.Flags().StringSliceVar(&include, "include", nil, "only merge files matching these globs")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "skip files matching these globs")

	return cmd
}

// parseOrder turns "3,1,2" into zero-based positions. Every position must
// be within [1, n] and appear at most once.
func parseOrder(list string, n int) ([]int, error) {
	var positions []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.NewKind(errors.InvalidOperation, "invalid position %q in --order", part)
		}
		if p < 1 || p > n {
			return nil, errors.NewKind(errors.InvalidOperation, "position %d in --order is outside 1..%d", p, n)
		}
		if seen[p] {
			return nil, errors.NewKind(errors.InvalidOperation, "position %d appears twice in --order", p)
		}
		seen[p] = true
		positions = append(positions, p-1)
	}
	return positions, nil
}

// applyOrder turns ordering mode on and moves the listed files to the
// front in the given order. Files not listed keep their relative order
// after them.
func applyOrder(sess *session.Session, list string) error {
	original := sess.Files()
	positions, err := parseOrder(list, len(original))
	if err != nil {
		return err
	}
	sess.SetOrdering(true)
	for k, p := range positions {
		want := original[p]
		current := indexOf(sess.Files(), want)
		if current == k {
			continue
		}
		if err := sess.Reorder(current, session.Target{Kind: session.Insertion, Index: k}); err != nil {
			return err
		}
	}
	return nil
}

func indexOf(files []*types.CandidateFile, f *types.CandidateFile) int {
	for i, c := range files {
		if c == f {
			return i
		}
	}
	return -1
}

// printOutcomes lists what became of every file.
func printOutcomes(w io.Writer, outcomes []types.FileOutcome) {
	printHeader(w, fmt.Sprintf("Merged %d file(s)", len(outcomes)))
	for i, o := range outcomes {
		line := fmt.Sprintf("%2d. %-40s %-6s %8s  %s", i+1, o.File.RelativePath,
			types.TypeLabel(filepath.Ext(o.File.Name)), humanize.Bytes(uint64(o.File.Size)), o.Outcome)
		switch o.Outcome.Kind {
		case types.ErrorPage:
			fmt.Fprintln(w, errorStyle.Render(line))
		case types.FallbackInfoPage:
			fmt.Fprintln(w, warningStyle.Render(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}
