package main

import (
	"log"

	"skymark/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ skymark failed to start: %v", err)
	}
}
