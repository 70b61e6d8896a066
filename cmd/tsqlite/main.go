package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/nsqlite/tsqlite/internal/shell"
)

func main() {
	_ = godotenv.Load()

	if err := shell.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
