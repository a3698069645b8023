package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if a.session.UserName != "" {
		parts = append(parts, a.session.UserName)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if n := len(a.today.Saving()); n > 0 {
		parts = append(parts, fmt.Sprintf("saving %d", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ") "
}

// Root greets the user and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to MedKeeper CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		_ = a.Today(ctx)
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
