package cmds

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/mrcool/pkg/backend"
	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/repl"
	"github.com/go-go-golems/mrcool/pkg/settings"
	"github.com/go-go-golems/mrcool/pkg/ui"
)

func newChatCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Long: `Starts an interactive chat. On a terminal this is a full-screen UI;
when stdin or stdout is redirected, or with --plain, prompts are read line by line.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{ownsTerminalAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(s)
			if err != nil {
				return err
			}

			if plain || !repl.IsTerminal(os.Stdin) || !repl.IsTerminal(os.Stdout) {
				return runREPL(cmd, s, client)
			}
			return runTUI(cmd.Context(), s, client)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented interface even on a terminal")
	return cmd
}

func runTUI(ctx context.Context, s settings.Settings, client *backend.Client) error {
	presenter := ui.NewProgramPresenter(s.NoticeDuration)
	defer presenter.Close()

	session := chat.NewSession(client, presenter)
	log.Info().Str("session_id", session.ID).Str("api_url", client.URL()).Msg("starting chat ui")

	model := ui.NewModel(ctx, session, ui.Options{
		AssistantName:    s.AssistantName,
		MaxPromptLength:  s.MaxPromptLength,
		SuggestedPrompts: s.SuggestedPrompts,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	presenter.Attach(p)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "run chat ui")
	}
	return nil
}

func runREPL(cmd *cobra.Command, s settings.Settings, client *backend.Client) error {
	width := repl.SetupOutput(os.Stdout)
	prompter := repl.NewTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	if !repl.IsTerminal(os.Stdin) {
		prompter.Prompt = ""
	}

	r := repl.New(prompter, cmd.OutOrStdout(), cmd.ErrOrStderr(), repl.Options{
		AssistantName:    s.AssistantName,
		SuggestedPrompts: s.SuggestedPrompts,
		Width:            width,
	})
	session := chat.NewSession(client, r)
	log.Info().Str("session_id", session.ID).Str("api_url", client.URL()).Msg("starting plain chat")
	return r.Run(cmd.Context(), session)
}
