package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/appabyss/appabyss/internal/client/session"
	"github.com/appabyss/appabyss/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	err = c.apiClient.Register(ctx, api.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Println("Registration successful. You can now login.")
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{
		UserName: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	// Сохраняем токен локально, сервер сессию не хранит
	err = c.sessions.Save(ctx, &session.Session{
		Token:      resp.Token,
		Expiration: resp.Expiration,
		Username:   username,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("Logged in as %s (token valid until %s)\n", username, resp.Expiration.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// runLogout забывает локальный токен. На сервере отзывать нечего.
func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	if sess.Expired() {
		fmt.Printf("Session for %s expired at %s. Please login again.\n",
			sess.Username, sess.Expiration.Local().Format("2006-01-02 15:04:05"))
		return nil
	}

	fmt.Printf("Logged in as %s\n", sess.Username)
	fmt.Printf("Token valid until %s\n", sess.Expiration.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (c *Cli) runSoftware(ctx context.Context) error {
	software, err := c.apiClient.ListSoftware(ctx)
	if err != nil {
		return err
	}

	if len(software) == 0 {
		fmt.Println("The catalog is empty.")
		return nil
	}

	fmt.Printf("Found %d software item(s):\n", len(software))
	fmt.Println()
	for _, sw := range software {
		fmt.Printf("%d. %s", sw.ID, sw.Name)
		if sw.Version != "" {
			fmt.Printf(" (%s)", sw.Version)
		}
		fmt.Println()
		if sw.ShortDescription != "" {
			fmt.Printf("   %s\n", sw.ShortDescription)
		}
	}
	return nil
}

func (c *Cli) runLists(ctx context.Context) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}

	lists, err := c.apiClient.ListLists(ctx)
	if err != nil {
		return err
	}

	if len(lists) == 0 {
		fmt.Println("No lists found.")
		fmt.Println()
		fmt.Println("Use 'appabyss list-create <name>' to create your first list.")
		return nil
	}

	fmt.Printf("Found %d list(s):\n", len(lists))
	fmt.Println()
	for _, l := range lists {
		fmt.Printf("%d. %s (%d item(s))\n", l.ID, l.Name, len(l.SoftwareIDs))
	}
	return nil
}

func (c *Cli) runList(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "list id")
	if err != nil {
		return err
	}

	if err := c.authorize(ctx); err != nil {
		return err
	}

	list, err := c.apiClient.GetList(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %d)\n", list.Name, list.ID)
	if len(list.SoftwareIDs) == 0 {
		fmt.Println("  empty")
		return nil
	}
	for _, sid := range list.SoftwareIDs {
		fmt.Printf("  software %d\n", sid)
	}
	return nil
}

func (c *Cli) runListCreate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: appabyss list-create <name>")
	}

	if err := c.authorize(ctx); err != nil {
		return err
	}

	list, err := c.apiClient.CreateList(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Created list %q with id %d\n", list.Name, list.ID)
	return nil
}

func (c *Cli) runListDelete(ctx context.Context, args []string) error {
	id, err := parseID(args, 0, "list id")
	if err != nil {
		return err
	}

	if err := c.authorize(ctx); err != nil {
		return err
	}

	if err := c.apiClient.DeleteList(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Deleted list %d\n", id)
	return nil
}

func (c *Cli) runListAdd(ctx context.Context, args []string) error {
	listID, err := parseID(args, 0, "list id")
	if err != nil {
		return err
	}
	softwareID, err := parseID(args, 1, "software id")
	if err != nil {
		return err
	}

	if err := c.authorize(ctx); err != nil {
		return err
	}

	if err := c.apiClient.AddSoftware(ctx, listID, softwareID); err != nil {
		return err
	}

	fmt.Printf("Added software %d to list %d\n", softwareID, listID)
	return nil
}

func (c *Cli) runListRemove(ctx context.Context, args []string) error {
	listID, err := parseID(args, 0, "list id")
	if err != nil {
		return err
	}
	softwareID, err := parseID(args, 1, "software id")
	if err != nil {
		return err
	}

	if err := c.authorize(ctx); err != nil {
		return err
	}

	if err := c.apiClient.RemoveSoftware(ctx, listID, softwareID); err != nil {
		return err
	}

	fmt.Printf("Removed software %d from list %d\n", softwareID, listID)
	return nil
}

// authorize подставляет действующий токен в API клиент
func (c *Cli) authorize(ctx context.Context) error {
	sess, err := c.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return fmt.Errorf("not authenticated. Please run 'appabyss login' first")
		}
		return fmt.Errorf("failed to read session: %w", err)
	}
	c.apiClient.SetToken(sess.Token)
	return nil
}

func parseID(args []string, idx int, name string) (int64, error) {
	if len(args) <= idx {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, args[idx])
	}
	return id, nil
}
