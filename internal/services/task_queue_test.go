package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sarkargroup/smd-backend/internal/config"
)

func TestTaskTypeResetPasswordMail_Constant(t *testing.T) {
	if TaskTypeResetPasswordMail != "mail:reset_password" {
		t.Errorf("TaskTypeResetPasswordMail = %q, expected %q", TaskTypeResetPasswordMail, "mail:reset_password")
	}
}

func TestNewMailTask_Payload(t *testing.T) {
	task, err := newMailTask(&MailTask{To: "ada@x.com", FirstName: "Ada", ResetLink: "http://client/reset?forgetToken=t"})
	if err != nil {
		t.Fatalf("newMailTask() error = %v", err)
	}
	if task.Type() != TaskTypeResetPasswordMail {
		t.Errorf("Type() = %q, expected %q", task.Type(), TaskTypeResetPasswordMail)
	}

	var decoded MailTask
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.To != "ada@x.com" {
		t.Errorf("To = %q, expected %q", decoded.To, "ada@x.com")
	}
	if decoded.ResetLink != "http://client/reset?forgetToken=t" {
		t.Errorf("ResetLink = %q, expected %q", decoded.ResetLink, "http://client/reset?forgetToken=t")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	if err := queue.Enqueue(&MailTask{To: "a@x.com"}); err != nil {
		t.Errorf("Enqueue() without processor should not fail, got %v", err)
	}
	if err := queue.Close(); err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_ProcessesOffRequestPath(t *testing.T) {
	queue := NewSyncQueue()

	var mu sync.Mutex
	var got []string
	queue.SetProcessor(func(_ context.Context, task *MailTask) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, task.To)
		if task.To == "fail@x.com" {
			return errors.New("smtp down")
		}
		return nil
	})

	for _, to := range []string{"a@x.com", "fail@x.com", "b@x.com"} {
		if err := queue.Enqueue(&MailTask{To: to}); err != nil {
			t.Fatalf("Enqueue(%q) error = %v", to, err)
		}
	}
	if err := queue.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Errorf("processed %d tasks, expected 3", len(got))
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}

func TestNewWorker_DisabledRedis(t *testing.T) {
	if w := NewWorker(&config.RedisConfig{Enabled: false}); w != nil {
		t.Error("NewWorker should return nil when redis is disabled")
	}
}

func TestWorker_HandleMailTask(t *testing.T) {
	var received *MailTask
	w := &Worker{}
	w.SetProcessor(func(_ context.Context, task *MailTask) error {
		received = task
		return nil
	})

	task, err := newMailTask(&MailTask{To: "ada@x.com", FirstName: "Ada"})
	if err != nil {
		t.Fatalf("newMailTask() error = %v", err)
	}
	if err := w.handleMailTask(context.Background(), task); err != nil {
		t.Fatalf("handleMailTask() error = %v", err)
	}
	if received == nil || received.To != "ada@x.com" {
		t.Errorf("processor received %+v, expected task for ada@x.com", received)
	}

	bad := asynq.NewTask(TaskTypeResetPasswordMail, []byte("{not json"))
	if err := w.handleMailTask(context.Background(), bad); err == nil {
		t.Error("handleMailTask() should fail on a malformed payload")
	}
}
