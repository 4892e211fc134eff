package ledger

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// autoSaver runs the periodic save-then-backup job. It acquires the same
// mutex as foreground operations, so it cannot race them, only delay them.
type autoSaver struct {
	cron *cron.Cron
}

// StartAutoSave schedules a save and backup on a fixed interval as a
// durability safety net independent of per-operation persistence. Calling it
// twice is a no-op; stop with StopAutoSave.
func (l *Ledger) StartAutoSave(interval time.Duration) {
	if l.autosave != nil {
		return
	}
	c := cron.New()
	c.Schedule(cron.Every(interval), cron.FuncJob(l.autoSaveJob))
	c.Start()
	l.autosave = &autoSaver{cron: c}
	l.log.Info().Dur("interval", interval).Msg("autosave started")
}

// StopAutoSave stops the periodic job. A run already holding the lock
// finishes first.
func (l *Ledger) StopAutoSave() {
	if l.autosave == nil {
		return
	}
	ctx := l.autosave.cron.Stop()
	<-ctx.Done()
	l.autosave = nil
	l.log.Info().Msg("autosave stopped")
}

func (l *Ledger) autoSaveJob() {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := l.snapshotLocked()
	if err := l.store.Save(context.Background(), snap); err != nil {
		l.log.Error().Err(err).Msg("autosave save failed")
		return
	}
	if _, err := l.store.CreateBackup(snap); err != nil {
		l.log.Error().Err(err).Msg("autosave backup failed")
	}
}
