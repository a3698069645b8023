package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/medkeeper/internal/client/services"
	"github.com/dmitrijs2005/medkeeper/internal/logging"
)

// printNotifier shows action outcomes to the user and forwards them to the
// log. Outcomes of background saves arrive from other goroutines, so writes
// are serialised.
type printNotifier struct {
	mu   sync.Mutex
	w    io.Writer
	next services.Notifier
}

func newPrintNotifier(w io.Writer, l logging.Logger) *printNotifier {
	return &printNotifier{w: w, next: services.NewLogNotifier(l)}
}

func (n *printNotifier) Success(ctx context.Context, action string) {
	n.next.Success(ctx, action)
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "ok: %s\n", action)
}

func (n *printNotifier) Failure(ctx context.Context, action string, err error) {
	n.next.Failure(ctx, action, err)
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "failed: %s: %s\n", action, userMessage(err))
}
