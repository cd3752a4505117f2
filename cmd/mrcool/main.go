package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/mrcool/cmd/mrcool/cmds"
	mrcool_doc "github.com/go-go-golems/mrcool/cmd/mrcool/doc"
	"github.com/go-go-golems/mrcool/pkg/logging"
	"github.com/go-go-golems/mrcool/pkg/settings"
)

var rootCmd = &cobra.Command{
	Use:           "mrcool",
	Short:         "mrcool is a chat client for the Mr.Cool assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// reinitialize the logger because we can now parse --log-level and co
		// from the command line flag
		if err := clay.InitLogger(); err != nil {
			return err
		}
		if cmds.OwnsTerminal(cmd) {
			logging.QuietUnlessFile(viper.GetString("log-file"))
		}
		return nil
	},
}

func initRootCmd() (*help.HelpSystem, error) {
	helpSystem := help.NewHelpSystem()
	if err := mrcool_doc.AddDocToHelpSystem(helpSystem); err != nil {
		return nil, err
	}
	help_cmd.SetupCobraRootCommand(helpSystem, rootCmd)

	// mrcool's own flags go on first so that clay binds them into viper
	settings.AddFlags(rootCmd)
	if err := clay.InitViper(settings.AppName, rootCmd); err != nil {
		return nil, err
	}
	cmds.Register(rootCmd)
	return helpSystem, nil
}

func main() {
	_, err := initRootCmd()
	cobra.CheckErr(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}
