package main

import (
	"context"
	"log"

	"github.com/oneai-dev/oneai/internal/catalog"
)

func main() {
	if err := catalog.App(context.Background()); err != nil {
		log.Fatalf("Failed to start catalog server: %v", err)
	}
}
