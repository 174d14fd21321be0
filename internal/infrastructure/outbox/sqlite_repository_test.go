package outbox_test

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/outbox"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload BLOB NOT NULL,
		published INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}

	return db
}

func TestOutbox_ShouldPersistEvent_BeforePublish(t *testing.T) {
	db := setupTestDB(t)
	repo := outbox.NewSQLiteRepository(db)

	evt := outbox.OutboxEvent{
		ID:        "evt-1",
		Type:      event.PaymentCreated,
		Payload:   []byte(`{"payment_id":1}`),
		CreatedAt: time.Now(),
	}

	err := repo.Save(evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.FindUnpublished(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if events[0].Published {
		t.Fatalf("expected event to be unpublished")
	}

	if events[0].Type != event.PaymentCreated {
		t.Fatalf("expected %s, got %s", event.PaymentCreated, events[0].Type)
	}
}

func TestOutbox_FindUnpublished_OrdersByCreationAndLimits(t *testing.T) {
	repo := outbox.NewSQLiteRepository(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c", "a", "b"} {
		_ = repo.Save(outbox.OutboxEvent{
			ID:        id,
			Type:      event.PaymentCreated,
			Payload:   []byte(`{}`),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	events, err := repo.FindUnpublished(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 || events[0].ID != "c" || events[1].ID != "a" {
		t.Fatalf("unexpected order %+v", events)
	}
}

func TestOutbox_ReturnsOldestFirst(t *testing.T) {
	repo := outbox.NewSQLiteRepository(setupTestDB(t))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	// saved out of order; the whole-second timestamp must still sort first
	for _, e := range []struct {
		id string
		at time.Time
	}{
		{"later", base.Add(500 * time.Millisecond)},
		{"first", base},
		{"middle", base.Add(120 * time.Millisecond)},
	} {
		if err := repo.Save(outbox.OutboxEvent{ID: e.id, Type: event.PaymentCreated, Payload: []byte(`{}`), CreatedAt: e.at}); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.FindUnpublished(10)
	if err != nil {
		t.Fatal(err)
	}

	got := []string{}
	for _, e := range events {
		got = append(got, e.ID)
	}
	if len(got) != 3 || got[0] != "first" || got[1] != "middle" || got[2] != "later" {
		t.Errorf("expected [first middle later], got %v", got)
	}
	if !events[0].CreatedAt.Equal(base) {
		t.Errorf("expected created_at %v, got %v", base, events[0].CreatedAt)
	}
}

func TestOutboxEvent_RoundTripsTypedPayload(t *testing.T) {
	repo := outbox.NewSQLiteRepository(setupTestDB(t))
	recorder := &outbox.Recorder{Repo: repo}

	if err := recorder.Record(event.Event{
		Type:    event.PaymentDeactivated,
		Payload: event.PaymentDeactivatedPayload{PaymentID: 9},
	}); err != nil {
		t.Fatal(err)
	}

	events, err := repo.FindUnpublished(1)
	if err != nil || len(events) != 1 {
		t.Fatalf("expected one event, got %d (%v)", len(events), err)
	}

	evt, err := events[0].Event()
	if err != nil {
		t.Fatal(err)
	}
	payload, ok := evt.Payload.(event.PaymentDeactivatedPayload)
	if !ok || payload.PaymentID != 9 {
		t.Errorf("unexpected payload %#v", evt.Payload)
	}
}
