package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// presetCommand creates the preset command with its subcommands.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage named pack settings",
	}

	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetSaveCommand())
	cmd.AddCommand(c.presetRemoveCommand())

	return cmd
}

func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(c.presetsPath())
			if err != nil {
				return err
			}
			if len(store.Presets) == 0 {
				printInfo(c.Out, "No presets saved")
				return nil
			}
			for _, p := range store.Presets {
				s := p.Settings
				printKeyValue(c.Out, p.Name, fmt.Sprintf("min %d, limit %d, workers %d", s.MinSize, s.SizeLimit, s.Workers))
				if p.Description != "" {
					printDetail(c.Out, "%s", p.Description)
				}
			}
			return nil
		},
	}
}

func (c *CLI) presetSaveCommand() *cobra.Command {
	var (
		description string
		settings    = model.DefaultSettings()
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save or replace a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}
			path := c.presetsPath()
			store, err := project.LoadPresets(path)
			if err != nil {
				return err
			}
			store.Put(model.NewPreset(args[0], description, settings))
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			printSuccess(c.Out, "Saved preset %s", StyleValue.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "what the preset is for")
	cmd.Flags().IntVar(&settings.MinSize, "min-size", settings.MinSize, "smallest canvas side (power of two)")
	cmd.Flags().IntVar(&settings.SizeLimit, "size-limit", settings.SizeLimit, "exclusive upper bound for canvas sides")
	cmd.Flags().IntVar(&settings.Workers, "workers", settings.Workers, "canvas sizes evaluated concurrently")
	return cmd
}

func (c *CLI) presetRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.presetsPath()
			store, err := project.LoadPresets(path)
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("%w: %q", project.ErrPresetNotFound, args[0])
			}
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			printSuccess(c.Out, "Removed preset %s", args[0])
			return nil
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
