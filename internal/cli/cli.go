package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/buildinfo"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Logs go to the logger's writer.
	Out io.Writer

	// ConfigDir holds config.json and presets.json. Empty means ~/.atlaspack.
	ConfigDir string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "atlaspack",
		Short: "atlaspack packs sprites into a texture atlas",
		Long: `atlaspack packs a set of images into a single power-of-two texture atlas
and writes the atlas PNG together with sprite descriptors (C, JSON) and
optional layout reports (XLSX, PDF, DXF).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.presetCommand())

	return root
}

func (c *CLI) configDir() string {
	if c.ConfigDir != "" {
		return c.ConfigDir
	}
	return project.DefaultConfigDir()
}

func (c *CLI) configPath() string {
	return filepath.Join(c.configDir(), "config.json")
}

func (c *CLI) presetsPath() string {
	return filepath.Join(c.configDir(), "presets.json")
}

func (c *CLI) loadConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(c.configPath())
}

// parseFormats splits comma-separated format lists, dropping blanks.
func parseFormats(values []string) []string {
	var formats []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				formats = append(formats, f)
			}
		}
	}
	return formats
}
