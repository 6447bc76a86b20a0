package main

import (
	"log/slog"

	"github.com/flowmatic/flowmatic/pkg/flowmatic"
)

func main() {

	//you may do your own logger setup here or use this default one with slog
	flowmatic.SetupLogger()

	if err := flowmatic.Start(nil); err != nil {
		slog.Error("Engine exited with error", "error", err)
	}
}
