// Command ragmesh chats with local documents through the ingestion,
// retrieval and response agent pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ragmesh/cmd/ragmesh/askcmder"
	"github.com/hupe1980/ragmesh/cmd/ragmesh/chatcmder"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "ragmesh",
		Short:         "Agentic RAG chat over local documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")

	cmd.AddCommand(askcmder.NewAskCmd(&envFile))
	cmd.AddCommand(chatcmder.NewChatCmd(&envFile))

	return cmd
}

func main() {
	// Interrupts are handled per command: ask aborts its question, chat
	// aborts the running question and keeps the session.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
