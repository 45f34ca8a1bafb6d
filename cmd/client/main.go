// Copyright (c) 2026 PrepDeck. All rights reserved.

// Command client is the PrepDeck terminal client. It manages the local
// authentication session and can attach to a live interview room, printing
// incoming events and relaying typed lines as code updates.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prepdeck/prepdeck/internal/client/api"
	"github.com/prepdeck/prepdeck/internal/client/realtime"
	"github.com/prepdeck/prepdeck/internal/client/session"
	"github.com/prepdeck/prepdeck/internal/client/token"
)

type stdoutNotifier struct{}

func (stdoutNotifier) Success(message string) { fmt.Println(message) }
func (stdoutNotifier) Failure(message string) { fmt.Fprintln(os.Stderr, message) }

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	tokenPath := flag.String("token-file", defaultTokenPath(), "Path to the stored access token")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	tokens := token.NewFileStore(*tokenPath)
	apiClient := api.NewClient(strings.TrimRight(*serverURL, "/"), tokens)
	svc := session.NewService(apiClient, tokens, stdoutNotifier{}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "register":
		err = runRegister(ctx, svc, args[1:])
	case "login":
		err = runLogin(ctx, svc, args[1:])
	case "logout":
		svc.Bootstrap(ctx)
		svc.Logout(ctx)
	case "whoami":
		err = runWhoami(ctx, svc)
	case "join":
		err = runJoin(ctx, svc, tokens, *serverURL, args[1:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRegister(ctx context.Context, svc *session.Service, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: client register <name> <email> <password>")
	}
	_, err := svc.Register(ctx, args[0], args[1], args[2])
	return err
}

func runLogin(ctx context.Context, svc *session.Service, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: client login <email> <password>")
	}
	_, err := svc.Login(ctx, args[0], args[1])
	return err
}

func runWhoami(ctx context.Context, svc *session.Service) error {
	state := svc.Bootstrap(ctx)
	if !state.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}
	fmt.Printf("%s <%s> plan=%s active=%t\n",
		state.User.Name, state.User.Email,
		state.User.Subscription.Plan, state.User.Subscription.IsActive)
	return nil
}

// runJoin attaches to an interview room and bridges it to the terminal:
// room events print to stdout, typed lines go out as code updates.
func runJoin(ctx context.Context, svc *session.Service, tokens token.Store, serverURL string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: client join <session-id>")
	}
	sessionID := args[0]

	state := svc.Bootstrap(ctx)
	if !state.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	accessToken, _ := tokens.Token()
	room, err := realtime.Dial(ctx, serverURL, accessToken, sessionID)
	if err != nil {
		return err
	}
	defer room.Close()

	fmt.Printf("Joined session %s. Type to send code updates, Ctrl-C to leave.\n", sessionID)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if err := room.SendCodeUpdate(sessionID, map[string]string{"code": line}); err != nil {
				fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-room.Events():
			if !ok {
				return fmt.Errorf("connection closed")
			}
			switch event.Type {
			case realtime.EventError:
				fmt.Fprintf(os.Stderr, "[server] %s\n", event.Message)
			default:
				fmt.Printf("[%s] %s\n", event.Type, string(event.Payload))
			}
		}
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".prepdeck-token"
	}
	return filepath.Join(home, ".prepdeck", "token")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `PrepDeck terminal client

Usage:
  client [flags] <command>

Commands:
  register <name> <email> <password>   Create an account and sign in
  login <email> <password>             Sign in
  logout                               Sign out and revoke the token
  whoami                               Show the current account
  join <session-id>                    Attach to a live interview room

Flags:
  -server      Server URL (default http://localhost:8080)
  -token-file  Stored access token location
  -debug       Enable debug logging`)
}
