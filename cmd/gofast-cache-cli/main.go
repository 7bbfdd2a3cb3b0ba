// Command gofast-cache-cli is an interactive client for gofast-cache
// server. It reads newline-terminated commands from standard input and
// multiplexes them onto a single connection via internal/client.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gofast-cache/internal/cliapp"
	"gofast-cache/internal/client"
)

var rootCmd = &cobra.Command{
	Use:   "gofast-cache-cli",
	Short: "Interactive client for gofast-cache",
	RunE:  runRepl,
}

func init() {
	rootCmd.Flags().StringP("host", "H", "127.0.0.1", "server host")
	rootCmd.Flags().IntP("port", "p", 7878, "server port")
}

func runRepl(cmd *cobra.Command, args []string) error {
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return err
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	cc, err := client.Dial(context.Background(), addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer cc.Close()

	prompt := fmt.Sprintf("%s> ", addr)
	return cliapp.Run(context.Background(), os.Stdin, os.Stdout, os.Stderr, prompt, cc.Client())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
