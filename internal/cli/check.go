package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depfresh/internal/adapters"
	"depfresh/internal/app"
	"depfresh/internal/types"
)

type checkOptions struct {
	CachePath string
	CacheTTL  string
	Timeout   int
	Workers   int
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a written manifest for stale dependencies (hook entry point)",
		Long: "Reads one JSON hook event from stdin, extracts the dependency\n" +
			"declarations from the written manifest, resolves each package's\n" +
			"latest registry version, and exits 0 (allow) or 2 (block).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.CachePath, "cache-path", "", "Registry cache file path")
	cmd.Flags().StringVar(&opts.CacheTTL, "cache-ttl", "", "Registry cache TTL (e.g. 6h)")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", 0, "Registry request timeout in seconds")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Parallel registry lookups")
	_ = viper.BindPFlag("cache_path", cmd.Flags().Lookup("cache-path"))
	_ = viper.BindPFlag("cache_ttl", cmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("http_timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func serviceConfig() app.Config {
	return app.Config{
		CachePath:      viper.GetString("cache_path"),
		CacheTTL:       viper.GetDuration("cache_ttl"),
		HTTPTimeoutSec: viper.GetInt("http_timeout"),
		Workers:        viper.GetInt("workers"),
		NpmEndpoint:    viper.GetString("npm_endpoint"),
		CratesEndpoint: viper.GetString("crates_endpoint"),
		PypiEndpoint:   viper.GetString("pypi_endpoint"),
	}
}

func runCheck(ctx context.Context, cmd *cobra.Command, _ checkOptions) error {
	event, err := adapters.DecodeHookEvent(cmd.InOrStdin())
	if err != nil {
		// Fail open: an unreadable event must not block the host.
		log.Warn().Err(err).Msg("could not decode hook event")
		return emitResponse(cmd.OutOrStdout(), types.HookResponse{})
	}
	if event.Params.FilePath == "" || event.Params.Content == "" {
		return emitResponse(cmd.OutOrStdout(), types.HookResponse{})
	}

	service := app.NewService(ctx, serviceConfig())
	result := service.Check(ctx, app.CheckRequest{
		FilePath: event.Params.FilePath,
		Content:  event.Params.Content,
	})
	decision := result.Decision

	switch decision.Outcome {
	case types.OutcomeBlock:
		fmt.Fprintln(cmd.ErrOrStderr(), decision.Report)
		if err := emitResponse(cmd.OutOrStdout(), types.HookResponse{
			Decision: string(types.OutcomeBlock),
			Reason:   decision.Report,
		}); err != nil {
			return err
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("outdated dependencies block this write")
	case types.OutcomeWarn:
		fmt.Fprintln(cmd.ErrOrStderr(), decision.Report)
		return emitResponse(cmd.OutOrStdout(), types.HookResponse{
			Decision: string(types.OutcomeWarn),
			Reason:   decision.Report,
		})
	default:
		if decision.Report != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), decision.Report)
		}
		return emitResponse(cmd.OutOrStdout(), types.HookResponse{})
	}
}

func emitResponse(w io.Writer, response types.HookResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode hook response").
			WithCause(err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
