package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/barista/config"
	"github.com/teranos/barista/display"
	"github.com/teranos/barista/errors"
)

// ConfigCmd manages barista configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage barista configuration",
	Long: `Display and manage barista configuration.

Configuration sources (later overrides earlier):
1. Built-in defaults
2. System config (/etc/barista/barista.toml)
3. User config (~/.barista/barista.toml)
4. Project config (./barista.toml, searched up directories) or --config
5. Environment variables (BARISTA_* prefix, e.g. BARISTA_SALES_FILE)

Examples:
  barista config show --format yaml
  barista config set sales.file /srv/cafe/sales.csv
  barista config where`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate the configuration, or one file strictly",
	Long: `Validate the effective configuration. With a file argument the file is
also parsed strictly and unknown keys are reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter barista.toml with every default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key in a config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting comes from",
	Args:  cobra.NoArgs,
	RunE:  runConfigWhere,
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file (a backup is kept)")
	configSetCmd.Flags().String("file", config.DefaultPath(), "Config file to update")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configSetCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# barista configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# barista configuration\n%s", data)

	default:
		return errors.NewInvalidArgumentError("unsupported format: %s (supported: toml, json, yaml)", format)
	}

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Setup already loaded and validated the effective configuration
	if len(args) == 1 {
		unknown, err := config.CheckFile(args[0])
		if err != nil {
			return err
		}
		if len(unknown) > 0 {
			return errors.WithHint(
				errors.NewInvalidArgumentError("unknown keys in %s: %v", args[0], unknown),
				"run 'barista config show' to list the supported keys")
		}
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return errors.Wrapf(err, "%s is invalid", args[0])
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintln("Configuration is valid"))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteStarter(path, force); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("Wrote %s", path))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	if err := config.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("Set %s = %s in %s", args[0], args[1], path))
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	intro, err := config.Introspect()
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), intro)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration files (later overrides earlier):")
	for _, f := range intro.Files {
		fmt.Fprintf(out, "  %s\n", f.Describe())
	}
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range intro.Settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render settings")
	}
	fmt.Fprintln(out, table)
	return nil
}
