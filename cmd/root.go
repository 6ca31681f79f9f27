package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/contractmeta/internal/config"
	"github.com/zjrosen/contractmeta/internal/contract/application"
	"github.com/zjrosen/contractmeta/internal/log"
	"github.com/zjrosen/contractmeta/internal/presentation"
	"github.com/zjrosen/contractmeta/internal/tracing"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "contractmeta",
	Short: "Build contract metadata through validate and deploy stages",
	Long: `Build a contract metadata record through its fixed stages
(create, add author, validate, deploy) and print the result.

Values come from flags, then the config file, then built-in defaults.

Examples:
  contractmeta
  contractmeta --name TokenY --author alice --signer 0xBEEF
  contractmeta --format yaml`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runBuild,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .contractmeta/config.yaml, then ~/.config/contractmeta/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log (path from CONTRACTMETA_LOG, default debug.log)")

	rootCmd.Flags().String("name", "", "contract name")
	rootCmd.Flags().String("author", "", "contract author")
	rootCmd.Flags().String("timestamp", "", "deploy date as YYYY-MM-DD")
	rootCmd.Flags().String("signer", "", "signer address")
	rootCmd.Flags().StringP("format", "f", "", "output format: text, yaml or json")
	rootCmd.Flags().String("color", "", "header color: auto, always or never")

	bindFlags(viper.GetViper(), rootCmd)
}

// bindFlags maps root command flags onto config keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	_ = v.BindPFlag("contract.name", cmd.Flags().Lookup("name"))
	_ = v.BindPFlag("contract.author", cmd.Flags().Lookup("author"))
	_ = v.BindPFlag("contract.timestamp", cmd.Flags().Lookup("timestamp"))
	_ = v.BindPFlag("contract.signer", cmd.Flags().Lookup("signer"))
	_ = v.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	_ = v.BindPFlag("output.color", cmd.Flags().Lookup("color"))
}

func initConfig() {
	cfg, configErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads configuration into v and decodes it. A missing config file
// is not an error; defaults apply.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Config lookup order:
		// 1. .contractmeta/config.yaml (current directory)
		// 2. ~/.config/contractmeta/config.yaml (user config)
		if _, err := os.Stat(config.DefaultConfigPath); err == nil {
			v.SetConfigFile(config.DefaultConfigPath)
		} else {
			if dir := config.UserConfigDir(); dir != "" {
				v.AddConfigPath(dir)
			}
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var out config.Config
	if err := v.Unmarshal(&out); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	// Metadata keys are case-sensitive; take extra from the file as written.
	if used := v.ConfigFileUsed(); used != "" {
		extra, err := config.ReadExtra(used)
		if err != nil {
			return config.Config{}, err
		}
		out.Contract.Extra = extra
	}
	return out, nil
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("contract.name", defaults.Contract.Name)
	v.SetDefault("contract.author", defaults.Contract.Author)
	v.SetDefault("contract.timestamp", defaults.Contract.Timestamp)
	v.SetDefault("contract.signer", defaults.Contract.Signer)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("output.header", defaults.Output.Header)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	// Initialize logging if debug mode enabled (via flag or env var)
	if debugFlag || os.Getenv("CONTRACTMETA_DEBUG") != "" {
		logPath := os.Getenv("CONTRACTMETA_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "contractmeta starting", "version", version, "config", viper.ConfigFileUsed())
	}

	return build(cmd.Context(), cmd.OutOrStdout(), cfg)
}

// build runs the staged construction described by c and writes the result to out.
func build(ctx context.Context, out io.Writer, c config.Config) error {
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	}()

	formatter, err := presentation.NewFormatter(out, c.Output.Color)
	if err != nil {
		return err
	}

	svc := application.NewService(application.WithTracer(provider.Tracer()))
	deployed, err := svc.Build(ctx, application.Request{
		Name:      c.Contract.Name,
		Author:    c.Contract.Author,
		Timestamp: c.Contract.Timestamp,
		Signer:    c.Contract.Signer,
		Extra:     c.Contract.Extra,
	})
	if err != nil {
		return fmt.Errorf("building contract: %w", err)
	}

	_, span := provider.Tracer().Start(ctx, tracing.SpanRender, trace.WithAttributes(
		attribute.String(tracing.AttrContractID, deployed.ID()),
		attribute.String(tracing.AttrOutputFormat, c.Output.Format),
	))
	defer span.End()

	registry := deployed.Registry()
	defer registry.Release()

	header := c.Output.Header
	if header == "" {
		header = presentation.DefaultHeader
	}
	dto := presentation.FromHandle(deployed, registry)
	if err := formatter.Format(c.Output.Format, header, dto); err != nil {
		log.ErrorErr(log.CatRender, "Failed to write output", err, "format", c.Output.Format)
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// configPathFor returns where init writes the config, honoring --config.
func configPathFor(path string) string {
	if path != "" {
		return filepath.Clean(path)
	}
	return config.DefaultConfigPath
}
