package services

import (
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/utils"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultIdleThreshold = 30 * time.Minute
)

// SessionSweeper menjalankan ExpireStale secara periodik supaya meja yang
// ditinggal tanpa disconnect tidak terkunci selamanya.
type SessionSweeper struct {
	sessions  *SessionService
	interval  time.Duration
	threshold time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewSessionSweeper membaca SESSION_SWEEP_INTERVAL dan SESSION_IDLE_TIMEOUT
// dari environment (format time.ParseDuration), default 5m / 30m.
func NewSessionSweeper(db *gorm.DB) *SessionSweeper {
	return &SessionSweeper{
		sessions:  NewSessionService(db),
		interval:  durationFromEnv("SESSION_SWEEP_INTERVAL", defaultSweepInterval),
		threshold: durationFromEnv("SESSION_IDLE_TIMEOUT", defaultIdleThreshold),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		utils.ErrorLogger.Printf("Invalid %s value %q, using default %s", key, raw, fallback)
	}
	return fallback
}

// Start menjalankan loop sweep di goroutine terpisah.
func (sw *SessionSweeper) Start() {
	utils.InfoLogger.Printf("Session sweeper started (interval %s, idle threshold %s)", sw.interval, sw.threshold)

	go func() {
		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()
		defer close(sw.doneChan)

		for {
			select {
			case <-ticker.C:
				sw.Sweep()
			case <-sw.stopChan:
				return
			}
		}
	}()
}

// Sweep menjalankan satu putaran expire; diekspos juga untuk endpoint admin
// dan tests.
func (sw *SessionSweeper) Sweep() int {
	expired, err := sw.sessions.ExpireStale(sw.threshold)
	if err != nil {
		utils.ErrorLogger.Printf("Session sweep failed: %v", err)
		return 0
	}
	if expired > 0 {
		utils.InfoLogger.Printf("Session sweep expired %d stale session(s)", expired)
	}
	return expired
}

// Stop menghentikan loop dan menunggu goroutine selesai.
func (sw *SessionSweeper) Stop() {
	close(sw.stopChan)
	<-sw.doneChan
	utils.InfoLogger.Println("Session sweeper stopped")
}
