package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/nsqlite/tsqlite/internal/bench"
)

func main() {
	_ = godotenv.Load()

	if err := bench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
