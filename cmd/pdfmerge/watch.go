package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pdfmerge/internal/watch"
)

func newWatchCmd(g *globals) *cobra.Command {
	var (
		dirs   []string
		quiet  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Merge files as they arrive in hot folders",
		Long: `Watch directories for new files. Once no new file has arrived for the
quiet period, everything that arrived is merged into one PDF in name order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if len(dirs) > 0 {
				cfg.Watch.Directories = dirs
			}
			if len(cfg.Watch.Directories) == 0 {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				cfg.Watch.Directories = []string{wd}
			}
			if cmd.Flags().Changed("quiet") {
				cfg.Watch.QuietPeriod = quiet
			}
			if output != "" {
				cfg.Watch.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			daemon, err := watch.NewDaemon(cfg, watch.WithCallback(func(r watch.MergeReport) {
				if r.Err != nil {
					fmt.Fprintln(out, errorText(fmt.Sprintf("Merging %d file(s) failed: %v", len(r.Files), r.Err)))
					return
				}
				fmt.Fprintln(out, successText(fmt.Sprintf("%s  merged %d file(s) into %s",
					time.Now().Format("15:04:05"), len(r.Files), r.Path)))
			}))
			if err != nil {
				return err
			}

			fmt.Fprintln(out, infoText("Watching:"))
			for _, dir := range cfg.Watch.Directories {
				fmt.Fprintf(out, "  - %s\n", dir)
			}
			return watch.Serve(cmd.Context(), daemon)
		},
	}

	cmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "directory to watch (repeatable, default from config or current directory)")
	cmd.Flags().IntVarP(&quiet, "quiet", "q", 0, "seconds without new files before merging")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for merged PDFs")

	cmd.AddCommand(newWatchStopCmd(g))
	cmd.AddCommand(newWatchStatusCmd(g))
	return cmd
}

// watchDir is the directory whose PID file identifies a running watcher.
func watchDir(g *globals, dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if len(g.cfg.Watch.Directories) > 0 {
		return g.cfg.Watch.Directories[0], nil
	}
	return os.Getwd()
}

func newWatchStopCmd(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the watcher of a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := watchDir(g, dir)
			if err != nil {
				return err
			}
			if err := watch.StopDaemon(d); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Stop signal sent to the watcher of "+d))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "watched directory (default: first configured or current directory)")
	return cmd
}

func newWatchStatusCmd(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Tell whether a directory is being watched",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := watchDir(g, dir)
			if err != nil {
				return err
			}
			if watch.IsDaemonRunning(d) {
				fmt.Fprintln(cmd.OutOrStdout(), successText("A watcher is running for "+d))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), infoText("No watcher is running for "+d))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "watched directory (default: first configured or current directory)")
	return cmd
}
