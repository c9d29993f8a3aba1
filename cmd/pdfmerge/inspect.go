package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/pdfdoc"
)

func newInspectCmd(g *globals) *cobra.Command {
	var withText, withContent bool

	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Show the pages of a PDF",
		Long: `Show the page count and page sizes of a PDF. With --text the text of every
page is printed, and with --content its raw drawing operators, including those
of pages copied from other PDFs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				kind := errors.FileAccessDenied
				if os.IsNotExist(err) {
					kind = errors.FileNotFound
				}
				return errors.NewFileError("cannot read PDF", path, kind, err)
			}
			summary, err := pdfdoc.Inspect(data, withText)
			if err != nil {
				return errors.Wrapf(err, "cannot inspect %s", path)
			}

			out := cmd.OutOrStdout()
			printHeader(out, fmt.Sprintf("%s (%s, %d page(s))", filepath.Base(path),
				humanize.Bytes(uint64(len(data))), summary.PageCount()))
			for _, p := range summary.Pages {
				fmt.Fprintln(out, p.String())
				if withText && p.Text != "" {
					fmt.Fprintln(out, mutedStyle.Render(p.Text))
				}
				if withContent {
					content, err := pdfdoc.PageContent(data, p.Number)
					if err != nil {
						return errors.Wrapf(err, "cannot read page %d of %s", p.Number, path)
					}
					fmt.Fprintln(out, mutedStyle.Render(strings.TrimSpace(content)))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withText, "text", "t", false, "print the text of every page")
	cmd.Flags().BoolVar(&withContent, "content", false, "print the drawing operators of every page")
	return cmd
}
