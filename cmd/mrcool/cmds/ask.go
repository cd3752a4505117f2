package cmds

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
	"github.com/go-go-golems/mrcool/pkg/repl"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Send one prompt and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(s)
			if err != nil {
				return err
			}

			session := chat.NewSession(client, chat.PresenterFuncs{
				Notice: func(n notice.Notice) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), n.Text)
				},
			})
			if err := session.Submit(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}

			reply, _ := session.LastReply()
			text := reply.Text
			if repl.IsTerminal(os.Stdout) {
				text = render.SanitizeTerminal(text)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
