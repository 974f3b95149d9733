// File: cmd/run.go
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/backend"
	"github.com/hackparv/operate/internal/config"
	"github.com/hackparv/operate/internal/observability"
	"github.com/hackparv/operate/internal/operator"
	"github.com/hackparv/operate/internal/osctl"
	"github.com/hackparv/operate/internal/resolver"
)

// newRunCmd creates the `run` command: one full operator session.
func newRunCmd() *cobra.Command {
	var (
		modelSpec     string
		modelOverride string
		prompt        string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an operator session against an objective",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			objective := strings.TrimSpace(prompt)
			if objective == "" {
				objective, err = readObjective()
				if err != nil {
					return err
				}
			}

			store, err := config.NewSettingsStore(viper.GetString("settings_file"))
			if err != nil {
				return err
			}
			configuredDefault := os.Getenv("OPERATE_DEFAULT_MODEL")
			if configuredDefault == "" {
				if configuredDefault, err = store.DefaultModel(); err != nil {
					return err
				}
			}

			res := resolver.New(schemas.Family(cfg.Backend.DefaultFamily), logger)
			spec, err := res.Resolve(modelSpec, resolver.Options{
				CLIOverride:       modelOverride,
				ConfiguredDefault: configuredDefault,
				ConfiguredFamily:  schemas.FamilyOllama,
			})
			if err != nil {
				return describeFailure(err)
			}

			visionBackend, err := backend.New(cfg.Backend, spec, config.NewStoreCredentials(store, cfg.Backend.OpenAI.APIKey), logger)
			if err != nil {
				return err
			}
			if err := res.EnsureAvailable(cmd.Context(), visionBackend, spec); err != nil {
				return describeFailure(err)
			}

			loop := operator.NewLoop(
				cfg,
				spec,
				visionBackend,
				&osctl.DisplayScreen{},
				&osctl.RobotInput{TypeDelay: cfg.Input.TypeDelay},
				logger,
			)
			if err := loop.Run(cmd.Context(), objective); err != nil {
				return describeFailure(err)
			}

			logger.Info("Objective complete", zap.String("model", spec.ModelName))
			return nil
		},
	}

	runCmd.Flags().StringVarP(&modelSpec, "model", "m", "openai",
		"model spec: '<model>', '<family>:<model>[:<tag>]', or a bare family name")
	runCmd.Flags().StringVar(&modelOverride, "model-name", "",
		"model to use when the spec is a bare family name (overrides the configured default)")
	runCmd.Flags().StringVar(&prompt, "prompt", "", "the objective; prompted interactively when omitted")
	return runCmd
}

// readObjective prompts on stdin when no --prompt was supplied.
func readObjective() (string, error) {
	fmt.Print("What would you like the computer to do? > ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read objective: %w", err)
		}
		return "", fmt.Errorf("no objective provided")
	}
	objective := strings.TrimSpace(scanner.Text())
	if objective == "" {
		return "", fmt.Errorf("no objective provided")
	}
	return objective, nil
}

// describeFailure prefixes the error with its fault category so a session's
// termination message always distinguishes a bad spec from an unreachable
// service, a malformed response, an unsafe action, and plain exhaustion.
func describeFailure(err error) error {
	var (
		invalidSpec *resolver.InvalidSpecError
		notFound    *resolver.ModelNotFoundError
		unavailable *backend.ServiceUnavailableError
		parseErr    *backend.ResponseParseError
		unknownOp   *operator.UnknownOperationError
		blocked     *operator.ValidationError
		incomplete  *operator.ObjectiveNotCompletedError
	)
	switch {
	case errors.As(err, &invalidSpec):
		return fmt.Errorf("bad model spec: %w", err)
	case errors.As(err, &notFound):
		return fmt.Errorf("model not available: %w", err)
	case errors.As(err, &unavailable):
		return fmt.Errorf("backend unreachable: %w", err)
	case errors.As(err, &parseErr):
		return fmt.Errorf("malformed backend response: %w", err)
	case errors.As(err, &unknownOp):
		return fmt.Errorf("protocol mismatch: %w", err)
	case errors.As(err, &blocked):
		return fmt.Errorf("unsafe action: %w", err)
	case errors.As(err, &incomplete):
		return fmt.Errorf("iteration cap reached: %w", err)
	}
	return err
}
