package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ragmesh"
	"github.com/hupe1980/ragmesh/cmd/ragmesh/clisession"
	"github.com/hupe1980/ragmesh/config"
	"github.com/hupe1980/ragmesh/core"
)

const chatLongDesc string = `Start an interactive chat session.

Every line is sent as a question. Lines starting with a slash are
commands:
  /upload <path>...  upload documents
  /docs              list uploaded documents
  /agents            show agent status
  /quit              leave the session

An interrupt (Ctrl+C) aborts the running question; at the prompt it
leaves the session.

Examples:
  ragmesh chat --doc policy.pdf
  RAGMESH_PROVIDER=openai ragmesh chat`

const chatShortDesc string = "Chat with your documents"

type chatCommander struct {
	envFile *string
	docs    []string
}

// NewChatCmd returns the chat command. envFile points at the root --env-file flag.
func NewChatCmd(envFile *string) *cobra.Command {
	cmder := &chatCommander{envFile: envFile}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&cmder.docs, "doc", "d", nil, "Document to upload (repeatable)")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(*c.envFile)
	if err != nil {
		return err
	}

	sess, err := clisession.New(cfg, cfg.Logger())
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}
	out := cmd.OutOrStdout()

	for _, t := range sess.Turns() {
		clisession.PrintTurn(out, t)
	}
	if len(c.docs) > 0 {
		if err := upload(sess, out, c.docs); err != nil {
			return err
		}
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	return Loop(ctx, sess, cmd.InOrStdin(), out, interrupts)
}

// Loop reads lines from in until EOF, /quit or ctx is done, and prints every
// turn appended in response. A value on interrupts aborts the question being
// answered; received at the prompt it ends the loop. interrupts may be nil.
func Loop(ctx context.Context, sess *ragmesh.Session, in io.Reader, out io.Writer, interrupts <-chan os.Signal) error {
	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, "> ")
		var text string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case <-interrupts:
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-scanErr
			}
			text = l
		}

		line := strings.TrimSpace(text)
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/docs":
			docs := sess.Documents()
			if len(docs) == 0 {
				fmt.Fprintln(out, "no documents uploaded")
			}
			for _, d := range docs {
				fmt.Fprintf(out, "  %s (%s, %d bytes)\n", d.Name, d.Extension, d.SizeBytes)
			}
		case line == "/agents":
			for _, st := range sess.AgentStatus() {
				state := "idle"
				if st.Active {
					state = "active"
				}
				fmt.Fprintf(out, "  %-16s %-6s %s\n", st.Name, state, st.Description)
			}
		case strings.HasPrefix(line, "/upload"):
			paths := strings.Fields(strings.TrimPrefix(line, "/upload"))
			if len(paths) == 0 {
				fmt.Fprintln(out, "usage: /upload <path>...")
				continue
			}
			if err := upload(sess, out, paths); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			ask(ctx, sess, out, line, interrupts)
		}
	}
}

func ask(ctx context.Context, sess *ragmesh.Session, out io.Writer, query string, interrupts <-chan os.Signal) {
	qctx, cancel := context.WithCancel(ctx)
	defer cancel()

	answered := make(chan struct{})
	go func() {
		select {
		case <-interrupts:
			cancel()
		case <-answered:
		}
	}()

	before := len(sess.Turns())
	_, err := sess.Ask(qctx, query)
	close(answered)
	for _, t := range sess.Turns()[before:] {
		if t.Role == core.RoleUser {
			continue
		}
		clisession.PrintTurn(out, t)
	}
	switch {
	case err == nil, errors.Is(err, core.ErrStageFailed):
	case errors.Is(err, core.ErrAborted):
		fmt.Fprintln(out, "run aborted")
	default:
		fmt.Fprintf(out, "error: %v\n", err)
	}
}

func upload(sess *ragmesh.Session, out io.Writer, paths []string) error {
	before := len(sess.Turns())
	res, err := sess.UploadPaths(paths...)
	if err != nil {
		return fmt.Errorf("could not upload documents: %w", err)
	}
	clisession.PrintRejections(out, res)
	for _, t := range sess.Turns()[before:] {
		clisession.PrintTurn(out, t)
	}
	return nil
}
