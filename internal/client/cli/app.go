// Package cli implements the authctl commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rcornejom06/authcore/internal/client/api"
	"github.com/rcornejom06/authcore/internal/client/config"
	"github.com/rcornejom06/authcore/internal/common"
	"github.com/rcornejom06/authcore/internal/server/models"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var ErrUnknownCommand = errors.New("unknown command")

const usage = `usage: authctl [flags] <command>

commands:
  register   create an account and keep its session token
  login      log in and keep the session token
  profile    show the logged-in account
  logout     forget the session token
  health     query the gRPC health service

flags:
  -c file    JSON config file
  -u url     server URL
  -g addr    gRPC address
  -f file    token file
  -t dur     request timeout`

// API is the part of api.Client the commands use.
type API interface {
	Register(ctx context.Context, name, email, password string) (*api.Session, error)
	Login(ctx context.Context, email, password string) (*api.Session, error)
	Profile(ctx context.Context, token string) (*models.PublicAccount, error)
}

type healthFunc func(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error)

type App struct {
	config *config.Config
	api    API
	health healthFunc
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.New(c.ServerURL, c.Timeout),
		health: api.Health,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "profile":
		return a.Profile(ctx)
	case "logout":
		return a.Logout()
	case "health":
		return a.Health(ctx)
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	sess, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}
	if err := saveToken(a.config.TokenFile, sess.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered as %s\n", sess.User.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	sess, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	if err := saveToken(a.config.TokenFile, sess.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", sess.User.Email)
	return nil
}

// Profile prints the account behind the stored token. A token the server
// rejects is removed so the next run asks for a login.
func (a *App) Profile(ctx context.Context) error {
	token, err := loadToken(a.config.TokenFile)
	if err != nil {
		return err
	}

	acc, err := a.api.Profile(ctx, token)
	if common.IsAuthFailure(err) {
		if rmErr := removeToken(a.config.TokenFile); rmErr != nil {
			return errors.Join(err, rmErr)
		}
		return fmt.Errorf("session no longer valid, log in again: %w", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:      %s\n", acc.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", acc.DisplayName)
	fmt.Fprintf(a.out, "Email:   %s\n", acc.Email)
	if acc.Age != nil {
		fmt.Fprintf(a.out, "Age:     %d\n", *acc.Age)
	}
	if acc.ExternalID != nil {
		fmt.Fprintln(a.out, "Linked:  google")
	}
	fmt.Fprintf(a.out, "Active:  %t\n", acc.Active)
	return nil
}

func (a *App) Logout() error {
	if err := removeToken(a.config.TokenFile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Health(ctx context.Context) error {
	st, err := a.health(ctx, a.config.GRPCAddr)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", a.config.GRPCAddr, st)
	if st != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("server is %s", st)
	}
	return nil
}
