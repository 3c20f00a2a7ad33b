package cmd

import (
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// special handling for Windows, on all other platforms these resolve
	// to os.Stdout and os.Stderr, thanks to go-colorable
	stdout = color.Output
	stderr = color.Error

	okStatus   = color.New(color.FgGreen, color.Bold).SprintFunc()("√")  // √
	warnStatus = color.New(color.FgYellow, color.Bold).SprintFunc()("‼") // ‼
	failStatus = color.New(color.FgRed, color.Bold).SprintFunc()("×")    // ×

	logLevel string
)

// NewRootCmd returns the root Cobra command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "perceptia",
		Short: "perceptia is a tiling display compositor",
		Long:  "perceptia is a tiling display compositor.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", log.InfoLevel.String(),
		"log level, must be one of: panic, fatal, error, warn, info, debug")

	root.AddCommand(newCmdRun())
	root.AddCommand(newCmdCheck())
	root.AddCommand(newCmdVersion())
	return root
}
