package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soyeahso/voli/internal/config"
	"github.com/soyeahso/voli/internal/gateway"
	"github.com/soyeahso/voli/internal/hooks"
	"github.com/soyeahso/voli/internal/llm"
	"github.com/soyeahso/voli/internal/logging"
	"github.com/soyeahso/voli/internal/relay"
	"github.com/spf13/cobra"
	"github.com/tillberg/autorestart"
)

func newServeCmd() *cobra.Command {
	var (
		port   int
		bind   string
		static string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				go autorestart.RestartOnChange()
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}
			if static != "" {
				cfg.Gateway.StaticDir = static
			}

			if err := validateConfig(&cfg); err != nil {
				return err
			}
			if cfg.Model.APIKey == "" {
				return errors.New("no API key: set GEMINI_API_KEY or model.apiKey")
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log = logging.NewWithStyle(nil, level, cfg.Logging.ConsoleStyle)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := llm.NewGeminiClient(ctx, cfg.Model.APIKey, log)
			if err != nil {
				return fmt.Errorf("creating gemini client: %w", err)
			}

			opts := llm.Overrides{
				Temperature:       cfg.Model.Temperature,
				TopP:              cfg.Model.TopP,
				ThinkingBudget:    cfg.Model.ThinkingBudget,
				Tools:             cfg.Model.Tools,
				SystemInstruction: cfg.Model.SystemInstruction,
			}.Apply(llm.DefaultOptions())

			hookMgr := hooks.NewManager(log)
			if n := hooks.RegisterCommands(hookMgr, cfg.Hooks); n > 0 {
				log.Info().Int("count", n).Strs("events", hookMgr.Events()).Msg("command hooks registered")
			}

			handler := relay.NewHandler(relay.Config{Model: cfg.Model.Name, Options: opts}, client, hookMgr, log)
			srv := gateway.New(cfg.Gateway, handler, log, gateway.WithHooks(hookMgr))

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override listening port (env PORT)")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (lan, loopback, custom)")
	cmd.Flags().StringVar(&static, "static", "", "override static asset directory")
	cmd.Flags().BoolVar(&watch, "watch", false, "restart when the voli binary is rebuilt")

	return cmd
}
