package main

import (
	"github.com/spf13/cobra"

	"pdfmerge/internal/config"
	"pdfmerge/internal/log"
)

// globals holds what the persistent flags and PersistentPreRunE resolve
// for the subcommands.
type globals struct {
	cfgFile string
	debug   bool
	jsonLog bool
	logFile string

	cfg *config.Config
}

// configPath is where `config init` and the GUI settings tab save to.
func (g *globals) configPath() (string, error) {
	if g.cfgFile != "" {
		return g.cfgFile, nil
	}
	return config.DefaultPath()
}

// NewRootCmd creates the pdfmerge command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "pdfmerge",
		Short: "Merge files of many formats into one PDF",
		Long: `pdfmerge combines PDFs, images, text, documents and emails into a
single PDF. Every file becomes one or more pages, in the order you choose.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	helpTemplate := drawLogo() + "\n\n" + root.UsageTemplate()
	root.SetUsageTemplate(helpTemplate)
	root.SetHelpTemplate(helpTemplate)

	flags := root.PersistentFlags()
	flags.StringVar(&g.cfgFile, "config", "", "config file (default is $HOME/.config/pdfmerge/config.yaml)")
	flags.BoolVar(&g.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&g.jsonLog, "json-log", false, "write logs as JSON lines")
	flags.StringVar(&g.logFile, "log-file", "", "also write logs to this file")

	root.AddCommand(newMergeCmd(g))
	root.AddCommand(newTuiCmd(g))
	root.AddCommand(newGuiCmd(g))
	root.AddCommand(newWatchCmd(g))
	root.AddCommand(newInspectCmd(g))
	root.AddCommand(newConfigCmd(g))

	return root
}

// load reads the configuration and sets up logging. A missing or broken
// config file is not fatal: the defaults are used instead.
func (g *globals) load(cmd *cobra.Command) error {
	var err error
	if g.cfgFile != "" {
		g.cfg, err = config.LoadConfigFile(g.cfgFile)
	} else {
		g.cfg, err = config.LoadConfig()
	}

	var opts []log.Option
	level, jsonLog, file := "info", g.jsonLog, g.logFile
	if g.cfg != nil {
		if g.cfg.Log.Level != "" {
			level = g.cfg.Log.Level
		}
		jsonLog = jsonLog || g.cfg.Log.JSON
		if file == "" {
			file = g.cfg.Log.File
		}
	}
	opts = append(opts, log.WithOutput(cmd.ErrOrStderr()), log.WithLevel(level))
	if jsonLog {
		opts = append(opts, log.WithJSON())
	}
	if file != "" {
		opts = append(opts, log.WithFile(file))
	}
	log.Configure(opts...)
	log.SetDebug(g.debug)

	if err != nil {
		log.LogWithError(err).Warn("Using default settings")
		g.cfg = config.New()
	}
	applyTheme(g.cfg)
	return nil
}
