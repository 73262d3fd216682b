package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"propagent/internal/config"
	"propagent/internal/model"
	"propagent/internal/repository"
	"propagent/internal/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	agentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	eventStyle = lipgloss.NewStyle().Faint(true)
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("🏠 Property Search Agent")
	fmt.Println(strings.Repeat("=", 50))

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Database connection failed: %v\nMake sure the database is running: docker-compose up -d", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if cfg.Demo.Seed {
		if err := repo.SeedDemoData(ctx); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		fmt.Println("✅ Test data loaded (Kathmandu/Jawalkhel area)")
	}

	aiClient, err := service.NewAIClient(&cfg.Agent)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}

	recordEvent := func(ev model.ToolEvent) {
		fmt.Println(eventStyle.Render(fmt.Sprintf("  [tool] %s -> %s (%s)", ev.Tool, ev.Outcome, ev.Took)))
	}

	session := service.NewSession("cli")
	dispatcher := service.NewDispatcher(repo, recordEvent)
	agent := service.NewAgent(session, dispatcher, aiClient)

	fmt.Println("Type 'quit' to exit, 'reset' to clear history")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(userStyle.Render("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit":
			fmt.Println("Goodbye!")
			return
		case "reset":
			agent.Reset()
			fmt.Println("🔄 Conversation reset")
			continue
		}

		reply, err := agent.Chat(ctx, input)
		if err != nil {
			if sessionFatal(err) {
				log.Fatalf("Session aborted: %v", err)
			}
			fmt.Println()
			fmt.Println(agentStyle.Render("Agent: ") + "Error: " + err.Error())
			fmt.Println()
			continue
		}

		fmt.Println()
		fmt.Println(agentStyle.Render("Agent: ") + reply)
		fmt.Println()
	}
}

// sessionFatal reports whether an agent error must end the session. Only an
// unreachable store qualifies; transient query failures are printed and the
// loop continues.
func sessionFatal(err error) bool {
	return errors.Is(err, model.ErrStoreUnavailable)
}
