// Command demo runs the terminal dashboard against a running API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"shortsmaker/demo/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	apiURL := flag.String("url", "http://localhost:8082", "Shorts maker API URL")
	flag.Parse()

	m := tui.NewModel(*apiURL)
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
