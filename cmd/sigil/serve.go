package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/scanner"
	"github.com/sigil-dev/sigil/pkg/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming scan server",
	Long: `Run Sigil as a long-lived streaming server that accepts scan and find
requests via stdin and answers via stdout, one JSON object per line.

The process compiles the signature catalog once at startup and serves
requests until stdin closes or SIGTERM is received, so callers pay the
compile cost once instead of per buffer.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	core, err := scanner.NewCore(scanner.Config{Logger: cmdLogger(cmd)})
	if err != nil {
		return err
	}
	defer core.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
