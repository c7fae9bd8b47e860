package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
)

// InitCommand represents the init command
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{configPath: config.ConfigFileNames[0]}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a syntaxy configuration file",
		Long: `Write a commented .syntaxy.toml with the default settings.

Examples:
  syntaxy init
  syntaxy init --path configs/syntaxy.toml
  syntaxy init --force`,
		Args: cobra.NoArgs,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVar(&i.force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "path", "p", i.configPath, "Configuration file to create")
	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := config.WriteDefaultConfig(path, i.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written: %s\n", path)
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
