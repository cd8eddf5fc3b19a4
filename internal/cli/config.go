package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// configCommand creates the config command with its subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the app config",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configBackupCommand())
	cmd.AddCommand(c.configRestoreCommand())

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective app config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, StyleTitle.Render("Config")+" "+StyleDim.Render(c.configPath()))
			printKeyValue(c.Out, "name", cfg.DefaultAtlasName)
			printKeyValue(c.Out, "output dir", cfg.DefaultOutputDir)
			printKeyValue(c.Out, "formats", strings.Join(cfg.DefaultFormats, ","))
			printKeyValue(c.Out, "min size", fmt.Sprint(cfg.DefaultMinSize))
			printKeyValue(c.Out, "size limit", fmt.Sprint(cfg.DefaultSizeLimit))
			printKeyValue(c.Out, "workers", fmt.Sprint(cfg.DefaultWorkers))
			if len(cfg.RecentAtlases) > 0 {
				printKeyValue(c.Out, "recent", strings.Join(cfg.RecentAtlases, ", "))
			}
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default app config",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if !force && fileExists(path) {
				printWarning(c.Out, "%s already exists, use --force to overwrite", path)
				return nil
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote default config")
			printFile(c.Out, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func (c *CLI) configBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file.json>",
		Short: "Export the app config and presets to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			presets, err := project.LoadPresets(c.presetsPath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, presets); err != nil {
				return err
			}
			printSuccess(c.Out, "Backed up config and %d presets", len(presets.Presets))
			printFile(c.Out, args[0])
			return nil
		},
	}
}

func (c *CLI) configRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file.json>",
		Short: "Replace the app config and presets from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.configPath(), backup.Config); err != nil {
				return err
			}
			if err := project.SavePresets(c.presetsPath(), backup.Presets); err != nil {
				return err
			}
			printSuccess(c.Out, "Restored config and %d presets from %s", len(backup.Presets.Presets), backup.CreatedAt)
			return nil
		},
	}
}
