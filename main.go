package main

import (
	"log"

	"github.com/thiagokokada/gitprompt-go/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitprompt-go: %v", err)
	}
}
