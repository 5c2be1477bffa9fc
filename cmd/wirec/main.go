// Command wirec encodes JSON records to protobuf-style wire bytes using a
// .proto schema, without generated code.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/wireform/wireform/cmd/wirec/commands"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := commands.Execute(logger); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
