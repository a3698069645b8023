package services

import (
	"context"

	"github.com/dmitrijs2005/medkeeper/internal/logging"
)

// Actions reported to a Notifier.
const (
	ActionRegister         = "register"
	ActionLogin            = "login"
	ActionLogout           = "logout"
	ActionAddMedication    = "add medication"
	ActionDeleteMedication = "delete medication"
	ActionMarkTaken        = "mark taken"
	ActionUpdateProfile    = "update profile"
	ActionExportReport     = "export report"
)

// Notifier receives the outcome of every mutating action. Exactly one of
// Success or Failure is called per action.
type Notifier interface {
	Success(ctx context.Context, action string)
	Failure(ctx context.Context, action string, err error)
}

// LogNotifier writes outcomes to a logger.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{log: l.With("module", "notifier")}
}

func (n *LogNotifier) Success(ctx context.Context, action string) {
	n.log.Info(ctx, "action succeeded", "action", action)
}

func (n *LogNotifier) Failure(ctx context.Context, action string, err error) {
	n.log.Warn(ctx, "action failed", "action", action, "error", err)
}

// report sends err's outcome to n and returns err unchanged.
func report(ctx context.Context, n Notifier, action string, err error) error {
	if err != nil {
		n.Failure(ctx, action, err)
		return err
	}
	n.Success(ctx, action)
	return nil
}
