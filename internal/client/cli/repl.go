package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/client/api"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Profiles(ctx context.Context) error
	Handle(ctx context.Context, handle string) error
	EditProfile(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	AddExperience(ctx context.Context) error
	AddEducation(ctx context.Context) error
	RemoveExperience(ctx context.Context, id string) error
	RemoveEducation(ctx context.Context, id string) error
	Posts(ctx context.Context) error
	Post(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, profiles, handle <h>, posts, quit"
	helpLoggedIn  = "Available commands: whoami, profile, profiles, handle <h>, edit-profile, add-experience, add-education, " +
		"rm-experience <id>, rm-education <id>, avatar <file>, posts, post, delete-account, logout, quit"
)

// runREPL starts a simple read-eval-print loop for the DevConnector CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Commands that take an argument
// print their usage when it is missing. The loop exits on scanner EOF or when
// the user types "exit" or "quit".
//
// Errors returned by command handlers are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "profiles":
			err = a.Profiles(ctx)
		case "handle":
			if len(args) == 0 {
				printlnFn("Usage: handle <handle>")
				continue
			}
			err = a.Handle(ctx, args[0])
		case "edit-profile":
			err = a.EditProfile(ctx)
		case "avatar":
			if len(args) == 0 {
				printlnFn("Usage: avatar <file>")
				continue
			}
			err = a.Avatar(ctx, args[0])
		case "add-experience":
			err = a.AddExperience(ctx)
		case "add-education":
			err = a.AddEducation(ctx)
		case "rm-experience":
			if len(args) == 0 {
				printlnFn("Usage: rm-experience <id>")
				continue
			}
			err = a.RemoveExperience(ctx, args[0])
		case "rm-education":
			if len(args) == 0 {
				printlnFn("Usage: rm-education <id>")
				continue
			}
			err = a.RemoveEducation(ctx, args[0])
		case "posts":
			err = a.Posts(ctx)
		case "post":
			err = a.Post(ctx)
		case "delete-account":
			err = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}

// describeError turns API failures into a line for the user.
func describeError(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrNotLoggedIn):
		return "Please log in first."
	case errors.Is(err, api.ErrUnauthorized):
		return "Session is not valid any more, please log in again."
	case errors.Is(err, api.ErrUnavailable):
		return "Server unavailable."
	case errors.As(err, &apiErr):
		return "Error: " + apiErr.Error()
	default:
		return "Error: " + err.Error()
	}
}
