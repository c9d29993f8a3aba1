//go:build nogui
// +build nogui

package gui

import (
	"fmt"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
)

// Run is a stub implementation for builds with GUI disabled
func Run(cfg *config.Config, cfgPath string, paths []string) error {
	fmt.Println("GUI is disabled in this build. Please use the CLI or the terminal UI.")
	return errors.New("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
