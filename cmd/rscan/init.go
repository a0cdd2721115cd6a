package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/rscan/internal/config"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an rscan configuration file",
		Long: `Generate a documented rscan configuration file with sensible defaults.

Examples:
  # Create rscan.yaml in the current directory
  rscan init

  # Custom output path
  rscan init --config custom.yaml

  # Overwrite existing file
  rscan init --force

  # Interactive setup wizard
  rscan init --interactive
  rscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", "rscan.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().String("template", string(config.TemplateDefault),
		"Config template: default, strict, minimal")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	templateName, _ := cmd.Flags().GetString("template")
	interactive, _ := cmd.Flags().GetBool("interactive")

	kind := config.TemplateKind(templateName)

	if interactive {
		var err error
		kind, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	if err := config.WriteTemplate(kind, configPath, force); err != nil {
		return err
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'rscan analyze .' to analyze your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.TemplateKind, string, error) {
	fmt.Println()
	fmt.Println("rscan Configuration Setup")
	fmt.Println("=========================")
	fmt.Println()

	kinds := config.TemplateKinds()
	items := make([]struct {
		Label       string
		Description string
		Value       config.TemplateKind
	}, 0, len(kinds))
	for _, k := range kinds {
		items = append(items, struct {
			Label       string
			Description string
			Value       config.TemplateKind
		}{
			Label:       string(k),
			Description: config.TemplateDescription(k),
			Value:       k,
		})
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Which template fits your project?",
		Items:     items,
		Templates: templates,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("template selection cancelled: %w", err)
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()

	return items[idx].Value, outputPath, nil
}
