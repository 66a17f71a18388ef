package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/multicur/internal/app"
	"github.com/kobzarvs/multicur/internal/logger"
)

func main() {
	args := os.Args[1:]
	debug := false
	for len(args) > 0 {
		switch args[0] {
		case "--debug":
			debug = true
			args = args[1:]
			continue
		case "--":
			args = args[1:]
		}
		break
	}
	if err := logger.Init(debug); err != nil {
		fmt.Fprintln(os.Stderr, "multicur:", err)
		os.Exit(1)
	}
	defer logger.Close()
	if err := app.New(args).Run(); err != nil {
		logger.Close()
		fmt.Fprintln(os.Stderr, "multicur:", err)
		os.Exit(1)
	}
}
