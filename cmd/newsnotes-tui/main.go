// Command newsnotes-tui browses the inbox of a running newsnotes server.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newsnotes/client"
	"newsnotes/config"
	"newsnotes/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("url", config.GetEnvOrDefault("NEWSNOTES_URL", client.DefaultBaseURL), "newsnotes API URL")
	source := flag.String("source", "", "preset or URL scraped on 'r' (server default when empty)")
	flag.Parse()

	m := tui.NewModel(client.NewClient(*serverURL), *source)
	program := tea.NewProgram(m, tea.WithAltScreen())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
