// Portafina - terminal chat client
//
// A small stand-in for the site's chat widget: same quota gating, same
// streaming relay, rendered in a terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/sidmandirwala/portafina/internal/quota"
	"github.com/sidmandirwala/portafina/internal/widget"
)

const contactMessage = "You have reached your daily question limit. For further inquiries, please reach out to Siddh directly at sidmandirwala9@gmail.com"

func main() {
	baseURL := os.Getenv("PORTAFINA_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	statePath, err := stateFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate state file: %v\n", err)
		os.Exit(1)
	}
	kv, err := quota.NewFileKV(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open state file: %v\n", err)
		os.Exit(1)
	}

	session := widget.NewSession(
		quota.New(kv),
		widget.NewHTTPRelay(baseURL),
		widget.NewHTTPLeads(baseURL),
	)

	fmt.Println("Hi there! I'm Siddh's AI assistant.")
	fmt.Println("Ask me anything about his experience, projects, or skills. (\"exit\" to quit)")

	in := bufio.NewScanner(os.Stdin)
	for {
		switch session.Tier() {
		case widget.TierExhausted:
			fmt.Println(contactMessage)
			return
		case widget.TierLeadPrompt:
			if !offerLeadForm(session, in) {
				return
			}
			continue
		}

		fmt.Printf("[%d remaining] > ", session.Remaining())
		if !in.Scan() {
			return
		}
		text := strings.TrimSpace(in.Text())
		if text == "exit" || text == "quit" {
			return
		}

		if !session.Submit(context.Background(), text, func(chunk string) {
			fmt.Print(chunk)
		}) {
			continue
		}
		fmt.Println()
		if session.Failed() {
			fmt.Println("Something went wrong. Please try again in a moment.")
		}
	}
}

// offerLeadForm walks the visitor through the lead form. Returns false
// when input is exhausted.
func offerLeadForm(session *widget.Session, in *bufio.Scanner) bool {
	fmt.Println("You've used your free questions. Enter your details to unlock more!")

	fmt.Print("Your full name: ")
	if !in.Scan() {
		return false
	}
	name := strings.TrimSpace(in.Text())

	fmt.Print("Your email address: ")
	if !in.Scan() {
		return false
	}
	email := strings.TrimSpace(in.Text())

	if err := session.SubmitLead(context.Background(), name, email); err != nil {
		fmt.Printf("Could not submit: %v\n", err)
		return true
	}
	fmt.Println("Thanks! More questions unlocked.")
	return true
}

func stateFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "portafina", "state.json"), nil
}
