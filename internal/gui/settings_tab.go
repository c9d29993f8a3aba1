//go:build !nogui
// +build !nogui

package gui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
)

// createSettingsTab creates the settings tab
func (a *App) createSettingsTab() fyne.CanvasObject {
	// --- Output ---
	outputDirEntry := widget.NewEntry()
	outputDirEntry.SetText(a.cfg.Output.Directory)
	outputDirEntry.OnChanged = func(text string) {
		a.cfg.Output.Directory = text
	}
	browseButton := widget.NewButton("Browse...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			outputDirEntry.SetText(uri.Path())
		}, a.mainWindow)
	})

	prefixEntry := widget.NewEntry()
	prefixEntry.SetText(a.cfg.Output.Prefix)
	prefixEntry.OnChanged = func(text string) {
		a.cfg.Output.Prefix = text
	}

	outputCard := widget.NewCard("Output", "", container.NewVBox(
		widget.NewLabel("Directory:"),
		container.NewBorder(nil, nil, nil, browseButton, outputDirEntry),
		widget.NewLabel("Filename prefix:"),
		prefixEntry,
	))

	// --- Selection ---
	recursiveCheck := widget.NewCheck("Include subfolders of dropped folders", func(value bool) {
		a.cfg.Selection.Recursive = value
	})
	recursiveCheck.SetChecked(a.cfg.Selection.Recursive)

	orderingDefault := widget.NewCheck("Start with ordering mode on", func(value bool) {
		a.cfg.Ordering.Enabled = value
	})
	orderingDefault.SetChecked(a.cfg.Ordering.Enabled)

	selectionCard := widget.NewCard("Selection", "", container.NewVBox(recursiveCheck, orderingDefault))

	// --- Text layout ---
	metricsCheck := widget.NewCheck("Measure text with font metrics", func(value bool) {
		a.cfg.Text.UseFontMetrics = value
	})
	metricsCheck.SetChecked(a.cfg.Text.UseFontMetrics)

	emailLinesEntry := widget.NewEntry()
	emailLinesEntry.SetText(strconv.Itoa(a.cfg.Text.EmailMaxLines))
	emailLinesEntry.Validator = func(text string) error {
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			return errors.New("enter a whole number of at least 1")
		}
		return nil
	}
	emailLinesEntry.OnChanged = func(text string) {
		if n, err := strconv.Atoi(text); err == nil && n >= 1 {
			a.cfg.Text.EmailMaxLines = n
		}
	}

	themeSelect := widget.NewSelect(config.ListThemes(), func(value string) {
		a.cfg.ApplyTheme(value)
	})
	themeSelect.SetSelected(a.cfg.Theme.Name)

	layoutCard := widget.NewCard("Pages", "Applies to the next start", container.NewVBox(
		metricsCheck,
		container.NewBorder(nil, nil, widget.NewLabel("Email body lines:"), nil, emailLinesEntry),
		container.NewBorder(nil, nil, widget.NewLabel("Terminal theme:"), nil, themeSelect),
	))

	// --- Save Settings Button ---
	saveSettingsButton := widget.NewButton("Save Settings", func() {
		if err := a.saveConfig(); err != nil {
			a.ShowError("Could not save settings", err)
			return
		}
		a.ShowInfo("Settings saved successfully")
	})

	return container.NewVScroll(container.NewVBox(
		outputCard,
		selectionCard,
		layoutCard,
		saveSettingsButton,
	))
}

// saveConfig validates the edited configuration and writes it to the
// config file.
func (a *App) saveConfig() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if a.cfgPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return errors.NewConfigError("no config file location", "", errors.ConfigNotSet, err)
		}
		a.cfgPath = path
	}
	return config.SaveConfig(a.cfg, a.cfgPath)
}
