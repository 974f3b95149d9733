// File: cmd/models.go
package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/backend"
	"github.com/hackparv/operate/internal/config"
	"github.com/hackparv/operate/internal/observability"
	"github.com/hackparv/operate/internal/resolver"
)

// newModelsCmd groups the local model management actions.
func newModelsCmd() *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage locally available vision models",
	}
	modelsCmd.AddCommand(newModelsListCmd())
	modelsCmd.AddCommand(newModelsSetDefaultCmd())
	return modelsCmd
}

// newModelsListCmd creates `models list`: a table of local ollama models.
func newModelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List locally available ollama models",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ollamaBackend()
			if err != nil {
				return err
			}

			models, err := b.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				// Reachable service, nothing installed: guidance, not a fault.
				fmt.Fprintln(out, "No ollama models found.")
				fmt.Fprintln(out, "To install models, try:")
				fmt.Fprintln(out, "  ollama pull llava")
				fmt.Fprintln(out, "  ollama pull llava:7b")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.HumanSize(), m.LastModified.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

// newModelsSetDefaultCmd creates `models set-default NAME`: validates the
// model locally, then persists it as the configured default.
func newModelsSetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default NAME",
		Short: "Set the configured default ollama model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			b, err := ollamaBackend()
			if err != nil {
				return err
			}
			res := resolver.New(schemas.FamilyOllama, observability.GetLogger())
			err = res.EnsureAvailable(cmd.Context(), b, schemas.ModelSpecification{
				Raw:       name,
				Family:    schemas.FamilyOllama,
				ModelName: name,
				Source:    schemas.SourceExplicit,
			})
			if err != nil {
				var notFound *resolver.ModelNotFoundError
				if errors.As(err, &notFound) {
					return err
				}
				return fmt.Errorf("backend unreachable: %w", err)
			}

			store, err := config.NewSettingsStore(viper.GetString("settings_file"))
			if err != nil {
				return err
			}
			if err := store.SetDefaultModel(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default ollama model set to: %s\n", name)
			return nil
		},
	}
}

func ollamaBackend() (schemas.VisionBackend, error) {
	cfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	// The model name is irrelevant for listing and validation.
	return backend.NewOllamaBackend(cfg.Backend, resolver.FallbackOllamaModel, observability.GetLogger()), nil
}
