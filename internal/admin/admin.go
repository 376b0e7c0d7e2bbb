// Package admin implements the operator command line: creating, listing and
// deleting accounts directly against the database.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
	"github.com/google/uuid"
)

var ErrUsage = errors.New("usage: walletapi-admin [config flags] create|list|delete [args]")

var commands = map[string]struct{}{"create": {}, "list": {}, "delete": {}, "help": {}}

type UserService interface {
	CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type App struct {
	users  UserService
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(us UserService, in io.Reader, out io.Writer) *App {
	return &App{users: us, reader: bufio.NewReader(in), out: out}
}

// SplitCommand finds the first subcommand in args and returns it with the
// arguments that follow it. Everything before it belongs to the config layer.
func SplitCommand(args []string) (string, []string) {
	for i, a := range args {
		if _, ok := commands[a]; ok {
			return a, args[i+1:]
		}
	}
	return "", nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	cmd, rest := SplitCommand(args)

	switch cmd {
	case "create":
		return a.create(ctx, rest)
	case "list":
		return a.list(ctx)
	case "delete":
		return a.delete(ctx, rest)
	case "help":
		fmt.Fprintln(a.out, "Available commands: create [-name NAME] [-email EMAIL], list, delete ID")
		return nil
	default:
		return ErrUsage
	}
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *name == "" {
		if *name, err = GetSimpleText(a.reader, "Enter name", a.out); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.users.CreateUser(ctx, services.CreateUserInput{Name: *name, Email: *email, Password: password})
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return fmt.Errorf("invalid input: %v", verr.Fields)
		case errors.Is(err, common.ErrorAlreadyExists):
			return fmt.Errorf("email %s is already registered", *email)
		}
		return err
	}

	fmt.Fprintf(a.out, "created user %s (%s)\n", user.ID, user.Email)
	return nil
}

func (a *App) list(ctx context.Context) error {
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	if err := a.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("user %s not found", id)
		}
		return err
	}

	fmt.Fprintf(a.out, "deleted user %s\n", id)
	return nil
}
