package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/cafe-order-app/models"
)

func TestSweeperConfigFromEnv(t *testing.T) {
	db := setupSessionTestDB(t)

	t.Setenv("SESSION_SWEEP_INTERVAL", "1m")
	t.Setenv("SESSION_IDLE_TIMEOUT", "10m")

	sweeper := NewSessionSweeper(db)
	assert.Equal(t, time.Minute, sweeper.interval)
	assert.Equal(t, 10*time.Minute, sweeper.threshold)
}

func TestSweeperInvalidEnvFallsBack(t *testing.T) {
	db := setupSessionTestDB(t)

	t.Setenv("SESSION_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("SESSION_IDLE_TIMEOUT", "")

	sweeper := NewSessionSweeper(db)
	assert.Equal(t, defaultSweepInterval, sweeper.interval)
	assert.Equal(t, defaultIdleThreshold, sweeper.threshold)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	db := setupSessionTestDB(t)
	svc := NewSessionService(db)
	table := seedTable(db, 1, 4)

	session, err := svc.InitHost(table.ID, "Andi", deviceInfo("device-host"))
	assert.NoError(t, err)

	db.Model(&models.TableSession{}).Where("id = ?", session.ID).
		UpdateColumn("last_activity_at", time.Now().Add(-time.Hour))

	t.Setenv("SESSION_IDLE_TIMEOUT", "30m")
	sweeper := NewSessionSweeper(db)

	assert.Equal(t, 1, sweeper.Sweep())
	assert.Equal(t, 0, sweeper.Sweep())
}

func TestSweeperStartStop(t *testing.T) {
	db := setupSessionTestDB(t)

	t.Setenv("SESSION_SWEEP_INTERVAL", "50ms")
	sweeper := NewSessionSweeper(db)

	sweeper.Start()
	time.Sleep(120 * time.Millisecond)
	sweeper.Stop()
}
