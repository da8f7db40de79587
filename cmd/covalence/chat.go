package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gwi.com/covalence/internal/core"
	"gwi.com/covalence/internal/session"
)

func newAskCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a single question",
		Example: `  covalence ask "show me the sales numbers"
  covalence ask what is the revenue trend`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireIdentity()
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			_, messages, err := app.chat.CreateChat(cmd.Context(), id, &question)
			if err != nil {
				return err
			}
			reply := messages[len(messages)-1]
			if reply.Author != core.AuthorAssistant || len(messages) < 3 {
				return errors.New("no reply received")
			}
			return app.printMessage(cmd.OutOrStdout(), reply)
		},
	}
}

func newChatCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation with the assistant.

Type a question and press enter. Commands:
  /new     start a fresh conversation
  /list    list conversations from this run
  /quit    leave`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireIdentity()
			if err != nil {
				return err
			}
			return app.repl(cmd, id)
		},
	}
}

func (a *application) repl(cmd *cobra.Command, id *session.Identity) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	chat, err := a.startChat(cmd, id)
	if err != nil {
		return err
	}

	in := a.input(cmd)
	for {
		fmt.Fprint(out, "> ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)

		switch line {
		case "":
		case "/quit", "/exit":
			return nil
		case "/new":
			if chat, err = a.startChat(cmd, id); err != nil {
				return err
			}
		case "/list":
			for _, c := range a.chat.ListChats(id) {
				title := "New conversation"
				if c.Title != nil {
					title = *c.Title
				}
				marker := " "
				if c.ID == chat.ID {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s  %s\n", marker, c.CreatedAt.Format("15:04:05"), title)
			}
		default:
			// blocks until the reply lands, so a chat never has two pending
			fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing your query...")
			reply, err := a.chat.PostMessage(ctx, chat.ID, id, line)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := a.printMessage(out, *reply); err != nil {
				return err
			}
		}

		if eof {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func (a *application) startChat(cmd *cobra.Command, id *session.Identity) (*core.Conversation, error) {
	chat, messages, err := a.chat.CreateChat(cmd.Context(), id, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if err := a.printMessage(cmd.OutOrStdout(), m); err != nil {
			return nil, err
		}
	}
	return chat, nil
}

func (a *application) printMessage(w io.Writer, msg core.Message) error {
	out, err := a.renderer.RenderMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}
	fmt.Fprint(w, out)
	return nil
}
