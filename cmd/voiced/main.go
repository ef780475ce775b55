// Package main is the entry point for the voiced daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/xsistens/voiced/internal/daemon"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

var (
	logLevel   string
	configHome string

	rootCmd = &cobra.Command{
		Use:   "voiced",
		Short: "Local voice-notification daemon",
		Long:  "voiced listens on loopback and turns short text notifications into spoken audio, picking a TTS back-end at start-up and falling back if it fails.",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLog()
		},
		RunE: runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP daemon",
		RunE:  runServe,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration snapshot",
		RunE:  runConfig,
	}
)

func setupLog() error {
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	return nil
}

func loadSnapshot() (*voiceconfig.Snapshot, error) {
	var paths voiceconfig.Paths
	if configHome != "" {
		paths.SettingsPath = configHome + "/settings.json"
		paths.PersonalitiesPath = configHome + "/voices.md"
		paths.PronunciationsPath = configHome + "/pronunciations.json"
	}
	return voiceconfig.Load(paths)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if port := viper.GetInt("port"); port != 0 {
		cfg.Port = port
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
	defer cancel()

	d := daemon.New(ctx, cfg, viper.GetInt("queue-depth"))
	log.Info("starting voiced", "port", cfg.Port)
	return d.Run(ctx)
}

func runConfig(*cobra.Command, []string) error {
	cfg, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	fmt.Printf("port: %d\n", cfg.Port)
	fmt.Printf("preferred_engine: %q\n", cfg.PreferredEngine)
	fmt.Printf("cloud_configured: %v\n", cfg.CloudConfigured())
	fmt.Printf("default_voice_id: %q\n", cfg.DefaultVoiceID)
	fmt.Printf("owner_name: %q\n", cfg.OwnerName)
	fmt.Printf("reduced_voice_feedback: %v\n", cfg.ReducedVoiceFeedback)
	fmt.Printf("voices: %d entries\n", len(cfg.Voices))
	fmt.Printf("pronunciations: %d entries\n", len(cfg.Pronunciations))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configHome, "config-dir", "", "override the config directory (default: platform-specific)")
	rootCmd.PersistentFlags().Int("port", 0, "override the listen port (default: PORT env or 8888)")
	rootCmd.PersistentFlags().Int("queue-depth", 0, "override the audio queue depth (default: 64)")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("queue-depth", rootCmd.PersistentFlags().Lookup("queue-depth"))
	viper.SetEnvPrefix("voiced")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, configCmd)
}
