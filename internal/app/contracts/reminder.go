package contracts

import "context"

type ReminderUsecase interface {
	SendReminders(ctx context.Context) (int, error)
}
