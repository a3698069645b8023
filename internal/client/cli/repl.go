package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListMedications(ctx context.Context) error
	AddMedication(ctx context.Context) error
	DeleteMedication(ctx context.Context, ref string) error
	Today(ctx context.Context) error
	Take(ctx context.Context, ref string) error
	Calendar(ctx context.Context, arg string) error
	Progress(ctx context.Context) error
	Export(ctx context.Context, arg string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: today, take <n>, meds, add, delete <n>, calendar [next|prev|YYYY-MM], progress, export [save], profile, editprofile, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the MedKeeper CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands that need an argument print their usage when it is missing.
// Errors returned by command handlers are not printed here; handlers and
// the notifier report their own outcomes.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "mk %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "meds", "list", "l":
			_ = a.ListMedications(ctx)

		case "add":
			_ = a.AddMedication(ctx)

		case "delete", "rm":
			if arg == "" {
				fmt.Fprintln(w, "Usage: delete <n|id>")
				continue
			}
			_ = a.DeleteMedication(ctx, arg)

		case "today", "t":
			_ = a.Today(ctx)

		case "take":
			if arg == "" {
				fmt.Fprintln(w, "Usage: take <n|id>")
				continue
			}
			_ = a.Take(ctx, arg)

		case "calendar", "cal":
			_ = a.Calendar(ctx, arg)

		case "progress":
			_ = a.Progress(ctx)

		case "export":
			_ = a.Export(ctx, arg)

		case "profile":
			_ = a.Profile(ctx)

		case "editprofile":
			_ = a.EditProfile(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
