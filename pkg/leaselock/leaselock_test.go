package leaselock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	key string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.key
	return nil
}

// fakeDB emulates app_locks in memory, ignoring expiry.
type fakeDB struct {
	mu    sync.Mutex
	locks map[string]string
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	switch sql {
	case tryAcquireSQL:
		if holder, ok := f.locks[key]; ok && holder != token {
			return fakeRow{err: pgx.ErrNoRows}
		}
		f.locks[key] = token
		return fakeRow{key: key}
	case renewSQL:
		if f.locks[key] != token {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{key: key}
	}
	return fakeRow{err: errors.New("unexpected query")}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	if f.locks[key] == token {
		delete(f.locks, key)
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func newFakeClient() (*Client, *fakeDB) {
	db := &fakeDB{locks: make(map[string]string)}
	return &Client{db: db}, db
}

func TestOptions_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Options
		wantTTL   time.Duration
		wantRenew time.Duration
	}{
		{"defaults", Options{}, 5 * time.Minute, 150 * time.Second},
		{"renew too slow", Options{TTL: time.Minute, RenewEvery: 2 * time.Minute}, time.Minute, 30 * time.Second},
		{"short ttl", Options{TTL: time.Second}, time.Second, time.Second},
		{"kept", JobOptions(1), 10 * time.Minute, 4 * time.Minute},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ttlMs := tc.in.normalize()
			if got.TTL != tc.wantTTL || got.RenewEvery != tc.wantRenew {
				t.Fatalf("got ttl=%v renew=%v", got.TTL, got.RenewEvery)
			}
			if ttlMs != tc.wantTTL.Milliseconds() {
				t.Fatalf("unexpected ttlMs %d", ttlMs)
			}
			if got.WaitInterval != 250*time.Millisecond {
				t.Fatalf("unexpected wait interval %v", got.WaitInterval)
			}
		})
	}
}

func TestAcquire_BusyAndRelease(t *testing.T) {
	c, db := newFakeClient()
	ctx := context.Background()

	first, err := c.Acquire(ctx, JobKey(7), JobOptions(7))
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if !strings.HasPrefix(first.Token, "filter/7/") {
		t.Fatalf("unexpected token %s", first.Token)
	}

	if _, err := c.Acquire(ctx, JobKey(7), JobOptions(7)); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("Release error: %v", err)
	}
	if first.Context.Err() == nil {
		t.Fatal("expected the lease context to be cancelled")
	}
	if len(db.locks) != 0 {
		t.Fatalf("expected the lock row to be deleted, got %v", db.locks)
	}

	second, err := c.Acquire(ctx, JobKey(7), JobOptions(7))
	if err != nil {
		t.Fatalf("expected to reacquire, got %v", err)
	}
	_ = second.Release(ctx)
}

func TestWithLease_LostLease(t *testing.T) {
	c, db := newFakeClient()
	opts := Options{TTL: 2 * time.Second, RenewEvery: 10 * time.Millisecond}

	err := c.WithLease(context.Background(), ModelKey(3), opts, func(ctx context.Context) error {
		db.mu.Lock()
		db.locks[ModelKey(3)] = "someone-else"
		db.mu.Unlock()
		<-ctx.Done()
		return nil
	})
	if !errors.Is(err, ErrLost) {
		t.Fatalf("expected ErrLost, got %v", err)
	}
}

func TestAcquire_EmptyKey(t *testing.T) {
	c, _ := newFakeClient()
	if _, err := c.Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected an error for an empty key")
	}
}
