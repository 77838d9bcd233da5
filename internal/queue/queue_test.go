package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestFilterJobMsg_RoundTrip(t *testing.T) {
	data, err := FilterJobMsg{JobID: 4, ModelID: 2}.Encode()
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	msg, err := DecodeFilterJobMsg(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if msg.JobID != 4 || msg.ModelID != 2 {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestQueueNames(t *testing.T) {
	if DeadLetterQueue(FilterQueue) != "filter_queue_dlq" || RetryQueue(FilterQueue) != "filter_queue_retry" {
		t.Fatal("unexpected derived queue names")
	}
	args := retryQueueArgs(FilterQueue)
	if args["x-dead-letter-routing-key"] != FilterQueue {
		t.Fatalf("retry queue must dead-letter back into the work queue, got %v", args)
	}
}

func TestConnectionURL(t *testing.T) {
	t.Setenv("RABBITMQ_USER", "guest")
	t.Setenv("RABBITMQ_PASSWORD", "secret")
	t.Setenv("RABBITMQ_HOST", "mq")
	t.Setenv("RABBITMQ_PORT", "5673")
	if got := ConnectionURL(); got != "amqp://guest:secret@mq:5673/" {
		t.Fatalf("unexpected url %s", got)
	}
}

type fakeStale struct {
	jobs  []db.FilterJob
	reset []int64
	fail  int64
}

func (f *fakeStale) GetStaleFilterJobs(ctx context.Context, olderThanSeconds int64) ([]db.FilterJob, error) {
	return f.jobs, nil
}

func (f *fakeStale) ResetFilterJob(ctx context.Context, id int64) error {
	if id == f.fail {
		return errors.New("conflict")
	}
	f.reset = append(f.reset, id)
	return nil
}

func TestRecoverStaleJobs(t *testing.T) {
	store := &fakeStale{
		jobs: []db.FilterJob{{ID: 1, ModelID: 9}, {ID: 2, ModelID: 9}, {ID: 3, ModelID: 8}},
		fail: 2,
	}
	pub := &fakePublisher{}

	n, err := RecoverStaleJobs(context.Background(), pub, store, 600)
	if err != nil {
		t.Fatalf("RecoverStaleJobs error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recovered jobs, got %d", n)
	}
	if len(pub.keys) != 2 || pub.keys[0] != "/filter_queue" {
		t.Fatalf("unexpected publishes %v", pub.keys)
	}
}

func TestPublishFIFO_Retries(t *testing.T) {
	pub := &flakyPublisher{failures: 2}
	if err := PublishFIFO(context.Background(), pub, FilterQueue, []byte("{}")); err != nil {
		t.Fatalf("PublishFIFO error: %v", err)
	}
	if pub.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", pub.calls)
	}
}

type flakyPublisher struct {
	failures int
	calls    int
}

func (f *flakyPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("flow control")
	}
	return nil
}
