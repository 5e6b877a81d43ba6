package main

import (
	"log"

	"github.com/suitegen/suitegen/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		log.Fatalf("error while running suitegen: %v", err)
	}
}
