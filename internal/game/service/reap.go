package service

import (
	"context"
	"log"
	"time"
)

// ReapIdle removes games whose last activity predates the TTL. Each
// candidate is re-checked under its own lock so a game that just saw a
// transition survives the sweep. Returns how many games were removed.
func (s *Service) ReapIdle(ctx context.Context, codes []string, ttl time.Duration) int {
	cutoff := s.now().UTC().Add(-ttl)
	removed := 0
	for _, code := range codes {
		if ctx.Err() != nil {
			return removed
		}
		mu := s.lock(code)
		mu.Lock()
		game, err := s.store.Get(ctx, code)
		if err == nil && game.LastActivityAt.Before(cutoff) {
			s.turnTimers.Cancel(code)
			s.roundTimers.Cancel(code)
			if err := s.store.Remove(ctx, code); err != nil {
				log.Printf("reap game %s: %v", code, err)
			} else {
				removed++
			}
		}
		mu.Unlock()
	}
	return removed
}
