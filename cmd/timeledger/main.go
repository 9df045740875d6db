package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jyang234/timeledger/internal/auth"
	"github.com/jyang234/timeledger/internal/config"
	"github.com/jyang234/timeledger/internal/core"
	"github.com/jyang234/timeledger/internal/storage"
	"github.com/jyang234/timeledger/internal/web"
)

var version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "timeledger",
		Short: "timeledger - task tracking with a time ledger",
		Long: `timeledger is a multi-user task tracking server that keeps a ledger of
manual and auto-credited time per task and serves daily time reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("timeledger version %s starting...", version)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return errors.New("auth.secret is not set (config file or TIMELEDGER_SECRET)")
			}

			gin.SetMode(cfg.Server.Mode)

			store, err := storage.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close()

			// Handle shutdown signals
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Println("Shutting down...")
				store.Close()
				os.Exit(0)
			}()

			engine := core.NewEngine(store)
			tokens := auth.NewManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
			server := web.NewServer(engine, store, tokens)

			log.Printf("Starting web server on %s", cfg.Server.Addr)
			return server.Run(cfg.Server.Addr)
		},
	}
}

func createAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin <username> <password>",
		Short: "Create an admin user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close()

			tokens := auth.NewManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
			hash, err := tokens.HashPassword(args[1])
			if err != nil {
				return err
			}

			user := &storage.UserRecord{
				ID:           storage.GenerateID(),
				Username:     args[0],
				PasswordHash: hash,
				IsAdmin:      true,
				CreatedAt:    time.Now().UTC(),
			}
			if err := store.CreateUser(cmd.Context(), user); err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Printf("Created admin user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.GlobalConfigPath()
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}

			fmt.Printf("Wrote default config to %s\n", path)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Never echo the signing secret
			cfg.Auth.Secret = "***"

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("timeledger %s\n", version)
		},
	}
}
