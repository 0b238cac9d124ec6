package askcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ragmesh/cmd/ragmesh/clisession"
	"github.com/hupe1980/ragmesh/config"
)

const askLongDesc string = `Ask a single question about the given documents.

The documents are uploaded, parsed and indexed, then the question runs
through the ingestion, retrieval and response agents. The answer is
printed with its sources and the agent trace.

Examples:
  ragmesh ask --doc policy.pdf "What is the refund policy?"
  ragmesh ask -d notes.md -d faq.txt "How long does shipping take?"`

const askShortDesc string = "Ask one question about documents"

type askCommander struct {
	envFile *string
	docs    []string
}

// NewAskCmd returns the ask command. envFile points at the root --env-file flag.
func NewAskCmd(envFile *string) *cobra.Command {
	cmder := &askCommander{envFile: envFile}

	cmd := &cobra.Command{
		Use:   "ask [flags] <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args[0])
		},
	}

	cmd.Flags().StringSliceVarP(&cmder.docs, "doc", "d", nil, "Document to upload (repeatable)")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, question string) error {
	cfg, err := config.Load(*c.envFile)
	if err != nil {
		return err
	}

	sess, err := clisession.New(cfg, cfg.Logger())
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}

	if len(c.docs) > 0 {
		res, err := sess.UploadPaths(c.docs...)
		if err != nil {
			return fmt.Errorf("could not upload documents: %w", err)
		}
		clisession.PrintRejections(cmd.ErrOrStderr(), res)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	run, err := sess.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("could not answer question: %w", err)
	}
	clisession.PrintTurn(cmd.OutOrStdout(), *run.Answer)
	return nil
}
