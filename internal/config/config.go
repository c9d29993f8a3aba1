package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"pdfmerge/internal/errors"
)

// Config represents the application configuration structure.
// It defines page geometry, text layout, file selection and watch mode parameters.
type Config struct {
	Output struct {
		Directory string `yaml:"directory"` // Where merged PDFs are written
		Prefix    string `yaml:"prefix"`    // Output filename prefix
	} `yaml:"output"`
	Page struct {
		Width  float64 `yaml:"width"`  // Page width in points (A4 = 595.28)
		Height float64 `yaml:"height"` // Page height in points (A4 = 841.89)
		Margin float64 `yaml:"margin"` // Margin on every side in points
	} `yaml:"page"`
	Text struct {
		FontSize        float64 `yaml:"font_size"`         // Body font size
		TitleSize       float64 `yaml:"title_size"`        // Title font size
		LineHeight      float64 `yaml:"line_height"`       // Distance between baselines
		CharWidthFactor float64 `yaml:"char_width_factor"` // Heuristic glyph width as a fraction of font size
		UseFontMetrics  bool    `yaml:"use_font_metrics"`  // Measure with real glyph widths
		EmailMaxLines   int     `yaml:"email_max_lines"`   // Body lines rendered for an email
	} `yaml:"text"`
	Progress struct {
		ConvertStart int `yaml:"convert_start"` // Percent reported before the first file
		ConvertEnd   int `yaml:"convert_end"`   // Percent reported after the last file
	} `yaml:"progress"`
	Selection struct {
		Include   []string `yaml:"include"`   // Only files matching one of these globs
		Exclude   []string `yaml:"exclude"`   // Skip files matching any of these globs
		Recursive bool     `yaml:"recursive"` // Descend into subdirectories
		Workers   int      `yaml:"workers"`   // Concurrent directory reads
	} `yaml:"selection"`
	Ordering struct {
		Enabled bool `yaml:"enabled"` // Start with ordering mode on
	} `yaml:"ordering"`
	Watch struct {
		Directories []string `yaml:"directories"`  // Hot folders
		QuietPeriod int      `yaml:"quiet_period"` // Seconds without new files before merging
		Output      string   `yaml:"output"`       // Destination for hot folder merges
	} `yaml:"watch"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
	Log struct {
		Level string `yaml:"level"` // debug, info, warn, error
		JSON  bool   `yaml:"json"`  // JSON lines instead of text
		File  string `yaml:"file"`  // Optional log file
	} `yaml:"log"`
}

// DefaultPath is ~/.config/pdfmerge/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfmerge", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/pdfmerge/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Decode on top of the defaults so unset keys keep their default values.
	// The theme is cleared so that a bare theme name picks up its palette.
	cfg.Theme = defaultConfig().Theme
	cfg.Theme.Primary = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	if cfg.Theme.Primary == "" {
		cfg.ApplyTheme(cfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Output.Directory = "."
	cfg.Output.Prefix = "merged-files"

	// A4 portrait in points
	cfg.Page.Width = 595.28
	cfg.Page.Height = 841.89
	cfg.Page.Margin = 50

	cfg.Text.FontSize = 11
	cfg.Text.TitleSize = 16
	cfg.Text.LineHeight = 14
	cfg.Text.CharWidthFactor = 0.5
	cfg.Text.UseFontMetrics = true
	cfg.Text.EmailMaxLines = 60

	cfg.Progress.ConvertStart = 20
	cfg.Progress.ConvertEnd = 80

	cfg.Selection.Include = []string{}
	cfg.Selection.Exclude = []string{}
	cfg.Selection.Recursive = true
	cfg.Selection.Workers = 4

	cfg.Ordering.Enabled = false

	cfg.Watch.Directories = []string{}
	cfg.Watch.QuietPeriod = 3

	cfg.ApplyTheme("default")

	cfg.Log.Level = "info"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewFileError("failed to create config directory", dir, errors.FileCreateFailed, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFileError("failed to write config file", path, errors.FileOperationFailed, err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}

	invalid := func(param, format string, args ...interface{}) error {
		return errors.NewConfigError(fmt.Sprintf(format, args...), param, errors.InvalidConfig, nil)
	}

	if c.Output.Prefix == "" {
		return invalid("output.prefix", "output prefix is required")
	}
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		return invalid("page", "page size must be positive, got %gx%g", c.Page.Width, c.Page.Height)
	}
	if c.Page.Margin < 0 || 2*c.Page.Margin >= c.Page.Width || 2*c.Page.Margin >= c.Page.Height {
		return invalid("page.margin", "margin %g leaves no drawable area", c.Page.Margin)
	}
	if c.Text.FontSize <= 0 || c.Text.TitleSize <= 0 || c.Text.LineHeight <= 0 {
		return invalid("text", "font sizes and line height must be positive")
	}
	if c.Text.CharWidthFactor <= 0 {
		return invalid("text.char_width_factor", "must be positive")
	}
	if c.Text.EmailMaxLines < 1 {
		return invalid("text.email_max_lines", "must be at least 1")
	}
	if c.Progress.ConvertStart < 0 || c.Progress.ConvertEnd > 100 || c.Progress.ConvertStart > c.Progress.ConvertEnd {
		return invalid("progress", "conversion band %d-%d is not within 0-100", c.Progress.ConvertStart, c.Progress.ConvertEnd)
	}
	if c.Selection.Workers < 1 {
		return invalid("selection.workers", "must be at least 1")
	}
	for _, p := range append(append([]string{}, c.Selection.Include...), c.Selection.Exclude...) {
		if _, err := glob.Compile(p); err != nil {
			return errors.NewConfigError("invalid glob pattern", p, errors.InvalidConfig, err)
		}
	}
	for _, dir := range c.Watch.Directories {
		if dir == "" {
			return invalid("watch.directories", "watch directory path cannot be empty")
		}
	}
	if c.Watch.QuietPeriod < 1 {
		return invalid("watch.quiet_period", "must be >= 1 second")
	}
	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
// Heuristic text measurement keeps layout independent of font tables.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Output.Directory = os.TempDir()
	cfg.Text.UseFontMetrics = false
	cfg.Selection.Workers = 2
	cfg.Watch.QuietPeriod = 1
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
		"paper": {
			"primary":  "160", // Acrobat red
			"success":  "71",
			"warning":  "178",
			"error":    "124",
			"info":     "67",
			"emphasis": "231",
			"border":   "160",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}
	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)
	if _, ok := themeNames[name]; !ok {
		name = "default"
	}

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

var themeNames = map[string]struct{}{
	"default": {}, "dark": {}, "light": {}, "monochrome": {}, "paper": {},
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "paper"}
}
