package dispatcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gabconcours_backend/internals/configs"
	"gabconcours_backend/internals/features/notifications/mailer"
	"gabconcours_backend/internals/features/notifications/outbox/model"
	"gabconcours_backend/internals/features/notifications/outbox/repository"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/storage"
	"gabconcours_backend/internals/testutil"
)

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []mailer.Message
	pan  bool
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if f.pan {
		panic("smtp exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var email = templates.Email{Event: templates.EventDocumentValide, To: "c@x.ga", Subject: "s", HTML: "<p>x</p>"}

func TestSend_Success(t *testing.T) {
	m := &fakeMailer{}
	d := New(m, nil, zerolog.Nop())
	res := d.Send(context.Background(), email)
	assert.True(t, res.Success)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "c@x.ga", m.sent[0].To)
}

func TestSend_FailureIsResultNotError(t *testing.T) {
	d := New(&fakeMailer{err: errors.New("550 mailbox unavailable")}, nil, zerolog.Nop())
	res := d.Send(context.Background(), email)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "550 mailbox unavailable")
}

func TestSend_PanicIsRecovered(t *testing.T) {
	d := New(&fakeMailer{pan: true}, nil, zerolog.Nop())
	res := d.Send(context.Background(), email)
	assert.False(t, res.Success)
}

func TestSend_MissingRecipient(t *testing.T) {
	d := New(&fakeMailer{}, nil, zerolog.Nop())
	res := d.Send(context.Background(), templates.Email{Subject: "s"})
	assert.False(t, res.Success)
}

func TestSendWithStoredAttachment(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "recus/r1.pdf", strings.NewReader("%PDF-1.4 recu"), "application/pdf"))

	m := &fakeMailer{}
	d := New(m, store, zerolog.Nop())

	res := d.SendWithStoredAttachment(context.Background(), email, "recus/r1.pdf")
	require.True(t, res.Success)
	require.Len(t, m.sent[0].Attachments, 1)
	assert.Equal(t, "r1.pdf", m.sent[0].Attachments[0].Name)
	assert.Equal(t, "application/pdf", m.sent[0].Attachments[0].ContentType)

	res = d.SendWithStoredAttachment(context.Background(), email, "recus/missing.pdf")
	assert.False(t, res.Success)
}

func newWorker(t *testing.T, m mailer.Mailer) (*OutboxWorker, *repository.Repository) {
	t.Helper()
	db := testutil.NewDB(t, &model.OutboxModel{})
	repo := repository.New(db)
	w := NewOutboxWorker(repo, New(m, nil, zerolog.Nop()), configs.OutboxConfig{Workers: 1, BatchSize: 10, MaxAttempts: 2}, zerolog.Nop())
	return w, repo
}

func TestOutboxWorker_ProcessMarksSent(t *testing.T) {
	m := &fakeMailer{}
	w, repo := newWorker(t, m)
	ctx := context.Background()

	row, err := repo.Enqueue(ctx, nil, email, nil)
	require.NoError(t, err)

	claimed, err := repo.ClaimDue(ctx, time.Now().UTC().Add(time.Second), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, w.Process(ctx, claimed[0]))
	got, err := repo.Get(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.NotNil(t, got.SentAt)
	assert.Len(t, m.sent, 1)
}

func TestOutboxWorker_RetryThenFailed(t *testing.T) {
	w, repo := newWorker(t, &fakeMailer{err: errors.New("timeout")})
	ctx := context.Background()

	row, err := repo.Enqueue(ctx, nil, email, nil)
	require.NoError(t, err)

	require.NoError(t, w.Process(ctx, *row))
	got, _ := repo.Get(ctx, row.ID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.LastError)
	assert.Contains(t, *got.LastError, "timeout")
	assert.True(t, got.NextAttemptAt.After(time.Now().UTC()))

	require.NoError(t, w.Process(ctx, *got))
	got, _ = repo.Get(ctx, row.ID)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, 2, got.Attempts)

	require.NoError(t, repo.Requeue(ctx, row.ID))
	got, _ = repo.Get(ctx, row.ID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, 0, got.Attempts)
}

func TestClaimDue_DoesNotClaimTwice(t *testing.T) {
	_, repo := newWorker(t, &fakeMailer{})
	ctx := context.Background()
	_, err := repo.Enqueue(ctx, nil, email, nil)
	require.NoError(t, err)

	now := time.Now().UTC().Add(time.Second)
	first, err := repo.ClaimDue(ctx, now, 10, time.Minute)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := repo.ClaimDue(ctx, now, 10, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Minute, Backoff(0))
	assert.Equal(t, time.Minute, Backoff(1))
	assert.Equal(t, 4*time.Minute, Backoff(3))
	assert.Equal(t, time.Hour, Backoff(20))
}
