package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bpkcongli/schema-checker/internal/cli"
	"github.com/bpkcongli/schema-checker/pkg/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the configured schemas over a JSON API.

Refused payloads are recorded in the rejection log: Redis when --redis (or
redis.addr) is set, in memory otherwise. Prometheus metrics are served at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collector := metrics.New()

		env, err := loadEnv(cmd, cli.Options{Hooks: collector.Hooks()})
		if err != nil {
			return err
		}

		if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
			env.Config.Redis.Addr = addr
		}
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, env, cli.ServeOptions{
			Port:      port,
			Collector: collector,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (defaults to server.port)")
	serveCmd.Flags().String("redis", "", "Redis address for the rejection log")
}
