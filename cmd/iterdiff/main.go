package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/IterDiff/internal/core"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env is fine for the CLI.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if core.IsUserFacing(err) {
			msg := core.MapError(err)
			fmt.Fprintf(os.Stderr, "hint: %s (Code: %s)\n", msg.Action, msg.Code)
		}
		os.Exit(1)
	}
}
