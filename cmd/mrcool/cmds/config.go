package cmds

import (
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		Long: `Prints the settings after applying defaults, the config file
($HOME/.mrcool/config.yaml or --config), MRCOOL_* environment variables and flags.
The output is a valid config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return s.WriteYAML(cmd.OutOrStdout())
		},
	}
}
