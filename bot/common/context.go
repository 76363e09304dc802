package common

import (
	"context"
	"time"
)

// CommandTimeout bounds the storage and upstream work behind one command.
const CommandTimeout = 10 * time.Second

// CommandContext returns the bounded context handlers run their service
// calls under.
func CommandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), CommandTimeout)
}
