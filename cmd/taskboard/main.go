// Command taskboard is the terminal client for the task tracker: a Kanban
// board and a task table over the authenticated session's task cache.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HannanShehzad/TaskManager/internal/client"
	"github.com/HannanShehzad/TaskManager/internal/view"
)

func main() {
	var (
		addr        = flag.String("addr", "http://localhost:5000", "task API base URL")
		sessionPath = flag.String("session", "", "session file path (default: user config dir)")
		login       = flag.Bool("login", false, "prompt for credentials and log in")
		signup      = flag.Bool("signup", false, "prompt for details and create an account")
		logout      = flag.Bool("logout", false, "log out and clear the stored session")
	)
	flag.Parse()

	if err := run(*addr, *sessionPath, *login, *signup, *logout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(addr, sessionPath string, login, signup, logout bool) error {
	if sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		sessionPath = p
	}

	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return err
	}
	api := client.NewAPIClient(addr, session)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case logout:
		if err := api.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case signup:
		name := prompt("name: ")
		email := prompt("email: ")
		password := prompt("password: ")
		if err := api.Signup(ctx, name, email, password); err != nil {
			return err
		}
		fmt.Println("account created, logged in as", email)

	case login:
		email := prompt("email: ")
		password := prompt("password: ")
		if err := api.Login(ctx, email, password); err != nil {
			return err
		}
		fmt.Println("logged in as", email)
	}

	if !session.Authenticated() {
		return fmt.Errorf("not logged in; run with -login or -signup first")
	}

	cache := client.NewTaskCache(api, nil)
	program := tea.NewProgram(view.NewModel(cache), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
