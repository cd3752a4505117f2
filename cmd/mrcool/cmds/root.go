package cmds

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/mrcool/pkg/backend"
	"github.com/go-go-golems/mrcool/pkg/settings"
)

const ownsTerminalAnnotation = "mrcool/owns-terminal"

// Register adds all subcommands to root.
func Register(root *cobra.Command) {
	root.AddCommand(
		newChatCommand(),
		newAskCommand(),
		newServeCommand(),
		newEchoBackendCommand(),
		newConfigCommand(),
	)
}

// OwnsTerminal reports whether cmd draws on the terminal itself, in which case
// logs must not go to stderr.
func OwnsTerminal(cmd *cobra.Command) bool {
	return cmd.Annotations[ownsTerminalAnnotation] == "true"
}

// loadSettings reads the global viper that clay.InitViper set up. The
// command's local flags (serve --addr) are bound here, clay only binds the
// root's persistent flags.
func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	v := viper.GetViper()
	settings.SetDefaults(v)
	if err := v.BindPFlags(cmd.LocalFlags()); err != nil {
		return settings.Settings{}, errors.Wrap(err, "bind flags")
	}
	return settings.Load(v)
}

func newClient(s settings.Settings) (*backend.Client, error) {
	return backend.NewClient(s.APIURL, backend.WithUserAgent(s.UserAgent))
}
