package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/sleep-trainer/backend/internal/client"
	"github.com/zhouzirui/sleep-trainer/backend/internal/config"
	"github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	"github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
	"github.com/zhouzirui/sleep-trainer/backend/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout; logs go to a file or nowhere.
	if cfg.Debug {
		f, err := tea.LogToFile("sleep-trainer.log", "tui")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	prompts, err := prompt.LoadFile(cfg.PromptsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load prompts: %v\n", err)
		os.Exit(1)
	}

	controller := session.NewController(uuid.NewString(), client.New(cfg.APIBaseURL, cfg.Timeout), prompts, session.Options{
		TriggerInterval: cfg.TriggerInterval,
		GenerateTimeout: cfg.Timeout,
	})
	defer controller.Close()

	model := tui.NewModel(controller)
	controller.Init()

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
