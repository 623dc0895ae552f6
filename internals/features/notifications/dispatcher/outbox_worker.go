package dispatcher

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"gabconcours_backend/internals/configs"
	"gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/worker"
)

const (
	defaultLease = 2 * time.Minute
	baseBackoff  = time.Minute
	maxBackoff   = time.Hour
)

// OutboxWorker: cron sweep → worker pool → Dispatcher.
type OutboxWorker struct {
	Repo       *repository.Repository
	Dispatcher *Dispatcher
	Cfg        configs.OutboxConfig
	Lease      time.Duration
	Log        zerolog.Logger

	pool   *worker.Pool
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewOutboxWorker(repo *repository.Repository, d *Dispatcher, cfg configs.OutboxConfig, log zerolog.Logger) *OutboxWorker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OutboxWorker{Repo: repo, Dispatcher: d, Cfg: cfg, Lease: defaultLease, Log: log}
}

func (w *OutboxWorker) Start(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel

	w.pool = worker.NewPool(w.Cfg.Workers)
	w.pool.Start(ctx)

	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := w.cron.AddFunc(w.Cfg.Schedule, func() { w.Sweep(ctx) }); err != nil {
		cancel()
		w.pool.Stop()
		return err
	}
	w.cron.Start()
	w.Log.Info().Str("schedule", w.Cfg.Schedule).Int("workers", w.Cfg.Workers).Msg("[OUTBOX] started")
	return nil
}

func (w *OutboxWorker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	if w.pool != nil {
		w.pool.Stop()
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.Log.Info().Msg("[OUTBOX] stopped")
}

// Sweep meng-claim baris jatuh tempo dan menyerahkannya ke pool. Return jumlah yang di-submit.
// Baris yang ditolak pool (antrian penuh) diambil lagi setelah lease habis.
func (w *OutboxWorker) Sweep(ctx context.Context) int {
	rows, err := w.Repo.ClaimDue(ctx, time.Now().UTC(), w.Cfg.BatchSize, w.Lease)
	if err != nil {
		w.Log.Error().Err(err).Msg("[OUTBOX] claim failed")
	}
	submitted := 0
	for i := range rows {
		row := rows[i]
		if w.pool != nil && w.pool.Submit(func(ctx context.Context) error { return w.Process(ctx, row) }) {
			submitted++
		}
	}
	if len(rows) > 0 {
		w.Log.Debug().Int("claimed", len(rows)).Int("submitted", submitted).Msg("[OUTBOX] sweep")
	}
	return submitted
}

// Process mengirim satu baris outbox lalu menandai sent / retry / failed.
func (w *OutboxWorker) Process(ctx context.Context, row model.OutboxModel) error {
	e := templates.Email{Event: row.Event, To: row.Recipient, Subject: row.Subject, HTML: row.HTML}

	var res Result
	if row.AttachmentKey != nil && *row.AttachmentKey != "" {
		res = w.Dispatcher.SendWithStoredAttachment(ctx, e, *row.AttachmentKey)
	} else {
		res = w.Dispatcher.Send(ctx, e)
	}

	if res.Success {
		return w.Repo.MarkSent(ctx, row.ID)
	}

	attempts := row.Attempts + 1
	next := time.Now().UTC().Add(Backoff(attempts))
	status, err := w.Repo.MarkAttemptFailed(ctx, row.ID, attempts, w.Cfg.MaxAttempts, res.Message, next)
	if err != nil {
		return err
	}
	ev := w.Log.Warn()
	if status == model.StatusFailed {
		ev = w.Log.Error()
	}
	ev.Uint("outbox_id", row.ID).Int("attempts", attempts).Str("status", status).Str("reason", res.Message).Msg("[OUTBOX] delivery failed")
	return nil
}

// Backoff eksponensial: 1m, 2m, 4m, ... maksimal 1 jam.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
