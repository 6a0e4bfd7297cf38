package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeanpaul/jarvis/internal/report"
	"github.com/jeanpaul/jarvis/internal/search"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	sourceStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}
}

func runChat(cmd *cobra.Command) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	fmt.Println(bannerStyle.Render("jarvis") + " ready. Type a question, or:")
	fmt.Println(sourceStyle.Render("  search: <query>   raw web search"))
	fmt.Println(sourceStyle.Render("  read: <url>       fetch a page as markdown"))
	fmt.Println(sourceStyle.Render("  report            knowledge summary"))
	fmt.Println(sourceStyle.Render("  exit              quit"))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "exit" || line == "quit":
			fmt.Println("bye")
			return nil

		case line == "report":
			fmt.Println(report.Generate(a.store, a.mem))

		case strings.HasPrefix(line, "search:"):
			query := strings.TrimSpace(strings.TrimPrefix(line, "search:"))
			text, kind := a.agg.Search(cmd.Context(), query)
			fmt.Println(text)
			fmt.Println(sourceStyle.Render("source: " + kind.String()))

		case strings.HasPrefix(line, "read:"):
			rawURL := strings.TrimSpace(strings.TrimPrefix(line, "read:"))
			page, err := search.ReadPage(cmd.Context(), rawURL, a.cfg.Search.UserAgent)
			if err != nil {
				fmt.Println(errorStyle.Render("read failed: " + err.Error()))
				continue
			}
			printRendered(renderer, page)

		default:
			resp, err := a.brain.Ask(cmd.Context(), line)
			if err != nil {
				fmt.Println(errorStyle.Render("ask failed: " + err.Error()))
				continue
			}
			printRendered(renderer, resp.Answer)
			fmt.Println(sourceStyle.Render("source: " + resp.Source.String()))
		}
		fmt.Println()
	}
	return scanner.Err()
}

func printRendered(renderer *glamour.TermRenderer, text string) {
	if renderer != nil {
		if out, err := renderer.Render(text); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(text)
}
