package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/runekv/pkg/api"
	"github.com/ssargent/runekv/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the RuneKV REST API server. Flags override values from the
config file when both are given.

Examples:
  runekv serve --api-key=mysecretkey --port=8080
  runekv serve --config=runekv.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg := config.DefaultConfig()
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading config: %v\n", err)
				return
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey, _ = cmd.Flags().GetString("api-key")
		}

		if cfg.APIKey == "" {
			cmd.Println("Error: an API key is required (--api-key or api_key in the config file)")
			return
		}

		log, err := buildLogger(cfg.Logging.Level)
		if err != nil {
			cmd.Printf("Error building logger: %v\n", err)
			return
		}
		defer func() { _ = log.Sync() }()

		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		serverConfig := api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.APIKey,
		}
		if err := api.StartServer(families, serverConfig, log); err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	},
}

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = parsed
	}
	return zapCfg.Build()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to a YAML config file")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("api-key", "", "API key for request authentication")
}
