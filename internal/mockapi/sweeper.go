package mockapi

import (
	"fmt"
	"log"

	"parkledger/internal/mockapi/store"
)

// Sweeper removes expired OTP codes. The server schedules it on a cron.
type Sweeper struct {
	store *store.Store
}

func NewSweeper(st *store.Store) *Sweeper {
	return &Sweeper{store: st}
}

func (s *Sweeper) SweepExpiredOTPCodes() error {
	removed, err := s.store.DeleteExpiredOTPCodes()
	if err != nil {
		return fmt.Errorf("sweeping expired OTP codes: %w", err)
	}
	if removed > 0 {
		log.Printf("Sweeper: removed %d expired OTP codes", removed)
	}
	return nil
}
