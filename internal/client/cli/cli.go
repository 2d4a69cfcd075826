package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/appabyss/appabyss/internal/client/api"
	"github.com/appabyss/appabyss/internal/client/session"
)

type Cli struct {
	apiClient *api.Client
	sessions  *session.Store
}

func New(apiClient *api.Client, sessions *session.Store) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
	}
}

func (c *Cli) Run(ctx context.Context, command string, args []string) {
	var err error

	switch command {
	case "register":
		err = c.runRegister(ctx)
	case "login":
		err = c.runLogin(ctx)
	case "logout":
		err = c.runLogout(ctx)
	case "status":
		err = c.runStatus(ctx)
	case "software":
		err = c.runSoftware(ctx)
	case "lists":
		err = c.runLists(ctx)
	case "list":
		err = c.runList(ctx, args)
	case "list-create":
		err = c.runListCreate(ctx, args)
	case "list-delete":
		err = c.runListDelete(ctx, args)
	case "list-add":
		err = c.runListAdd(ctx, args)
	case "list-remove":
		err = c.runListRemove(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readInput читает строку из stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword читает пароль без отображения на экране
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Переход на новую строку после ввода пароля
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

func PrintUsage() {
	fmt.Println("AppAbyss Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  appabyss [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version      Show version information")
	fmt.Println("  --server URL   Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH      Path to local session database (default: appabyss-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                    Register new user")
	fmt.Println("  login                       Login to server")
	fmt.Println("  logout                      Discard the saved session")
	fmt.Println("  status                      Show authentication status")
	fmt.Println("  software                    Show the software catalog")
	fmt.Println("  lists                       Show your software lists")
	fmt.Println("  list <id>                   Show one list with its software")
	fmt.Println("  list-create <name>          Create a new list")
	fmt.Println("  list-delete <id>            Delete a list")
	fmt.Println("  list-add <id> <software>    Add software to a list")
	fmt.Println("  list-remove <id> <software> Remove software from a list")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  appabyss register")
	fmt.Println("  appabyss login")
	fmt.Println("  appabyss list-create favorites")
	fmt.Println("  appabyss list-add 1 42")
}
