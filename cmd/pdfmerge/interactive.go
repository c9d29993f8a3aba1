package main

import (
	"io"

	"github.com/spf13/cobra"

	"pdfmerge/internal/gui"
	"pdfmerge/internal/log"
	"pdfmerge/internal/tui"
)

func newTuiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [paths...]",
		Short: "Start the terminal user interface",
		Long:  `Start the terminal user interface to pick, order and merge files interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the alternate screen apart, so they only
			// go to the log file while the TUI runs.
			opts := []log.Option{log.WithOutput(io.Discard), log.WithLevel(g.cfg.Log.Level)}
			if file := firstNonEmpty(g.logFile, g.cfg.Log.File); file != "" {
				opts = append(opts, log.WithFile(file))
			}
			log.Configure(opts...)
			return tui.Run(g.cfg, args)
		},
	}
}

func newGuiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [paths...]",
		Short: "Launch the graphical user interface",
		Long: `Launch the desktop window. Files can be added with the buttons or by
dropping them onto the window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return gui.Run(g.cfg, "", args)
			}
			path, err := g.configPath()
			if err != nil {
				log.LogWithError(err).Warn("Settings cannot be saved")
			}
			return gui.Run(g.cfg, path, args)
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
