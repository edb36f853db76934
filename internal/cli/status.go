package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/soyeahso/voli/internal/config"
	"github.com/soyeahso/voli/internal/gateway"
	"github.com/soyeahso/voli/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration summary and probe a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "voli %s (commit %s)\n\n", version.Version, version.Commit)
			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
				fmt.Fprintln(out, "         not found (using defaults)")
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Fprintf(out, "         error loading: %v\n", err)
				return nil
			}

			fmt.Fprintf(out, "Gateway: port=%d bind=%s path=%s static=%s\n",
				cfg.Gateway.Port, cfg.Gateway.Bind, cfg.Gateway.ChatPath, cfg.Gateway.StaticDir)

			key := "missing"
			if cfg.Model.APIKey != "" {
				key = "set"
			}
			tools := "default"
			if len(cfg.Model.Tools) > 0 {
				tools = strings.Join(cfg.Model.Tools, ",")
			}
			fmt.Fprintf(out, "Model:   name=%s apiKey=%s tools=%s\n", cfg.Model.Name, key, tools)

			if issues := config.Validate(&cfg); len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}

			health, err := probeHealth(healthURL(cfg.Gateway))
			if err != nil {
				fmt.Fprintf(out, "\nServer:  not reachable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "\nServer:  %s version=%s connections=%d uptime=%s\n",
				health.Status, health.Version, health.Connections,
				time.Duration(health.UptimeSec)*time.Second)
			return nil
		},
	}

	return cmd
}

func healthURL(cfg config.GatewayConfig) string {
	return "http://" + localAddr(cfg) + "/health"
}

func probeHealth(url string) (gateway.HealthResponse, error) {
	var health gateway.HealthResponse
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return health, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return health, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return health, fmt.Errorf("decoding health response: %w", err)
	}
	return health, nil
}
