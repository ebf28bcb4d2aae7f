package workers

import (
	"log"
	"time"
)

// ReplyTokenExpirer retires unprocessed reply tokens older than a cutoff.
// Implemented by db.ReplyTokenStore.
type ReplyTokenExpirer interface {
	ExpireOlderThan(cutoff time.Time) (int64, error)
}

// DefaultReplyTokenMaxAge is how long a LINE reply token stays usable.
// The platform invalidates them after roughly one minute; anything older
// must never be offered to the operator reply flow.
const DefaultReplyTokenMaxAge = time.Minute

// StartReplyTokenSweeper starts a loop that periodically expires stale
// reply tokens.
func StartReplyTokenSweeper(store ReplyTokenExpirer, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = DefaultReplyTokenMaxAge
	}
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			sweepOnce(store, maxAge, time.Now())
		}
	}()
}

func sweepOnce(store ReplyTokenExpirer, maxAge time.Duration, now time.Time) {
	expired, err := store.ExpireOlderThan(now.Add(-maxAge))
	if err != nil {
		log.Printf("token sweeper: expire error: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("token sweeper: expired %d stale reply tokens", expired)
	}
}
