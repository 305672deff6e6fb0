package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/engdan77/music-meta-manager/cmd"
)

func main() {
	// A .env file in the working directory supplies credential fallbacks;
	// its absence is not an error.
	_ = godotenv.Load()

	os.Exit(cmd.Execute())
}
