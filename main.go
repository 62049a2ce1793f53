package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zeu5/cheese-rl/cmd"
)

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	if err := cmd.RootCommand().Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
