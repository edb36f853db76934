package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/soyeahso/voli/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "********"

// secretPaths are config keys never echoed back to the terminal.
var secretPaths = [][]string{{"model", "apiKey"}}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the voli config file",
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a value from the config file (e.g. gateway.port)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ParseConfigPath(args[0])
			if err != nil {
				return err
			}
			raw, err := config.LoadRaw(paths.Config)
			if err != nil {
				return err
			}
			val, ok := config.GetValueAtPath(raw, path)
			if !ok {
				return fmt.Errorf("key %q is not set in %s", args[0], paths.Config)
			}
			return printValue(cmd.OutOrStdout(), redact(path, val))
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the config file; the value is parsed as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := editConfig(args[0], func(raw map[string]any, path []string) error {
				config.SetValueAtPath(raw, path, parseValue(args[1]))
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", args[0], redact(path, args[1]))
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a value from the config file, restoring its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := editConfig(args[0], func(raw map[string]any, path []string) error {
				if !config.UnsetValueAtPath(raw, path) {
					return fmt.Errorf("key %q is not set in %s", args[0], paths.Config)
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			return nil
		},
	}
}

// editConfig applies edit to the raw file, checks that the result still
// decodes and validates, and only then writes it back. It returns the
// parsed key path.
func editConfig(key string, edit func(map[string]any, []string) error) ([]string, error) {
	path, err := config.ParseConfigPath(key)
	if err != nil {
		return nil, err
	}
	raw, err := config.LoadRaw(paths.Config)
	if err != nil {
		return nil, err
	}
	if err := edit(raw, path); err != nil {
		return nil, err
	}

	cfg, err := config.FromRaw(raw)
	if err != nil {
		return nil, err
	}
	if issues := config.Validate(&cfg); len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.String()
		}
		return nil, &config.ConfigError{Message: "not saved: " + strings.Join(msgs, "; ")}
	}

	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	return path, config.SaveRaw(paths.Config, raw)
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paths.Config)
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with defaults and env applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if cfg.Model.APIKey != "" {
				cfg.Model.APIKey = redacted
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if err := validateConfig(&cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config OK")
			return nil
		},
	}
}

// redact masks secret values at or below path.
func redact(path []string, v any) any {
	for _, secret := range secretPaths {
		if slices.Equal(path, secret) {
			return redacted
		}
		if len(path) >= len(secret) || !slices.Equal(path, secret[:len(path)]) {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		key := secret[len(path)]
		child, ok := m[key]
		if !ok {
			continue
		}
		m = maps.Clone(m)
		m[key] = redact(append(slices.Clip(path), key), child)
		v = m
	}
	return v
}

// printValue writes scalars bare and maps or lists as YAML.
func printValue(w io.Writer, v any) error {
	switch v.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// parseValue reads a command-line value as YAML so numbers, booleans and
// lists such as "[urlContext, googleSearch]" keep their types. Anything
// that does not parse is kept as a plain string.
func parseValue(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	return v
}
