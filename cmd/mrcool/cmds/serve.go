package cmds

import (
	"github.com/spf13/cobra"

	"github.com/go-go-golems/mrcool/pkg/settings"
	"github.com/go-go-golems/mrcool/pkg/web"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat widget over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(s)
			if err != nil {
				return err
			}

			srv, err := web.NewServer(client, web.Config{
				Addr:             s.Addr,
				AssistantName:    s.AssistantName,
				MaxPromptLength:  s.MaxPromptLength,
				SuggestedPrompts: s.SuggestedPrompts,
				NoticeDuration:   s.NoticeDuration,
			})
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", settings.DefaultAddr, "Address to listen on")
	return cmd
}
