// Command gofast-cache-server runs the cache's TCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gofast-cache/internal/config"
	"gofast-cache/internal/server"
	"gofast-cache/internal/store"
)

var version = "0.1.0" // set during build with -ldflags

const banner = `
  ____       _____         _      ____           _
 / ___| ___ |  ___|_ _ ___| |_   / ___|__ _  ___| |__   ___
| |  _ / _ \| |_ / _' / __| __| | |   / _' |/ __| '_ \ / _ \
| |_| | (_) |  _| (_| \__ \ |_  | |__| (_| | (__| | | |  __/
 \____|\___/|_|  \__,_|___/\__|  \____\__,_|\___|_| |_|\___|
`

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:     "gofast-cache-server",
	Short:   "gofast-cache server: a networked in-memory key-value cache",
	Version: version,
	RunE:    runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gofast-cache-server v%s\n", version)
		fmt.Printf("Built with Go %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("host", "H", "127.0.0.1", "host to bind to")
	rootCmd.PersistentFlags().IntP("port", "p", 7878, "port to listen on (0 requests an OS-assigned port)")
	rootCmd.PersistentFlags().Int("max-connections", 250, "maximum concurrent connections")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	v.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	v.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	v.BindPFlag("max_connections", rootCmd.PersistentFlags().Lookup("max-connections"))
	v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	configureLogging(cfg)

	fmt.Print("\x1b[2J\x1b[1;1H")
	fmt.Println(banner)

	st := store.New()
	srv := server.New(st, cfg.MaxConnections, server.WithLogger(logrus.NewEntry(logrus.StandardLogger())))
	if err := srv.Bind(cfg.BindAddr()); err != nil {
		return err
	}
	fmt.Printf("gofast-cache server running on %s:%d\n", cfg.Host, srv.Port())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nshutting down gofast-cache server...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Println("gofast-cache server stopped")
	return nil
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
