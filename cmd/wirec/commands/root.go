package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var log *zap.Logger

var rootCmd = &cobra.Command{
	Use:           "wirec",
	Short:         "Descriptor-driven wire encoder",
	Long:          "wirec encodes JSON records into protobuf-style wire bytes driven by .proto descriptor tables, no code generation involved.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with the given logger.
func Execute(logger *zap.Logger) error {
	log = logger
	return rootCmd.Execute()
}
