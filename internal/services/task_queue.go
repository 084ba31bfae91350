package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/sarkargroup/smd-backend/internal/config"
	"github.com/sarkargroup/smd-backend/pkg/logger"
)

const (
	TaskTypeResetPasswordMail = "mail:reset_password"
)

// MailTask is a password reset mail waiting to be sent.
type MailTask struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
	ResetLink string `json:"reset_link"`
}

// TaskQueue defines the interface for mail dispatch
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *MailTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue initializes the global task queue based on config. Without
// Redis, mails are sent in-process by processor.
func InitTaskQueue(cfg *config.Config, processor func(context.Context, *MailTask) error) TaskQueue {
	taskQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err == nil {
				logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalTaskQueue = queue
				return
			}
			logger.Infof("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
		} else {
			logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
		}
		sq := NewSyncQueue()
		sq.SetProcessor(processor)
		globalTaskQueue = sq
	})
	return globalTaskQueue
}

// GetTaskQueue returns the global task queue instance
func GetTaskQueue() TaskQueue {
	return globalTaskQueue
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

func redisClientOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := redisClientOpt(cfg)
	client := asynq.NewClient(redisOpt)

	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func newMailTask(task *MailTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeResetPasswordMail, payload), nil
}

// Enqueue adds a mail task to the async queue
func (q *AsyncQueue) Enqueue(task *MailTask) error {
	t, err := newMailTask(task)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(t,
		asynq.Queue("mail"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Task enqueued: id=%s, queue=%s", info.ID, info.Queue)
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue sends mails on a goroutine of this process (no Redis)
type SyncQueue struct {
	processor func(context.Context, *MailTask) error
	wg        sync.WaitGroup
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function to process tasks
func (q *SyncQueue) SetProcessor(processor func(context.Context, *MailTask) error) {
	q.processor = processor
}

// Enqueue processes the task off the request path
func (q *SyncQueue) Enqueue(task *MailTask) error {
	if q.processor == nil {
		logger.Infof("[SyncQueue] Warning: no processor set, task will be dropped")
		return nil
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := q.processor(context.Background(), task); err != nil {
			logger.Infof("[SyncQueue] Task processing failed: %v", err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

// Close waits for in-flight tasks
func (q *SyncQueue) Close() error {
	q.wg.Wait()
	return nil
}
