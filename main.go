package main

import (
	"fmt"
	"os"

	"github.com/harx-ai/reps-assessor/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Standalone demo mode reads its defaults from a local .env file.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
