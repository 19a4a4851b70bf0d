package notify

import (
	"context"
	"sync"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"golang.org/x/sync/errgroup"
)

// Job is one results email waiting to be sent.
type Job struct {
	User            *models.User
	Stack           *models.AiStack
	Recommendations []models.AiRecommendation
}

type QueueConfig struct {
	Workers     int
	Size        int
	Timeout     time.Duration
	FrontendURL string
}

// Queue delivers results emails on a fixed pool of background workers.
type Queue struct {
	mailer Mailer
	log    *logger.Logger
	cfg    QueueConfig

	jobs  chan Job
	group errgroup.Group

	mu     sync.RWMutex
	closed bool
}

func NewQueue(mailer Mailer, log *logger.Logger, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Size <= 0 {
		cfg.Size = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	q := &Queue{
		mailer: mailer,
		log:    log.With("service", "NotifyQueue"),
		cfg:    cfg,
		jobs:   make(chan Job, cfg.Size),
	}
	for i := 0; i < cfg.Workers; i++ {
		q.group.Go(q.work)
	}
	return q
}

// Enqueue never blocks. It reports false when the job was dropped because the
// queue is full or closed.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.log.Warn("notification dropped, queue closed", "stack_id", job.Stack.ID)
		return false
	}
	select {
	case q.jobs <- job:
		return true
	default:
		q.log.Warn("notification dropped, queue full", "stack_id", job.Stack.ID, "size", q.cfg.Size)
		return false
	}
}

// Close stops accepting jobs, drains what is queued and waits for the workers.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	return q.group.Wait()
}

func (q *Queue) work() error {
	for job := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), q.cfg.Timeout)
		if err := q.deliver(ctx, job); err != nil {
			q.log.Error("Failed to send stack email", "stack_id", job.Stack.ID, "user_id", job.User.ID, "error", err)
		}
		cancel()
	}
	return nil
}

func (q *Queue) deliver(ctx context.Context, job Job) error {
	html, err := Render(StackEmail{
		UserName:        job.User.Name,
		Stack:           job.Stack,
		Recommendations: job.Recommendations,
		CheckoutURL:     q.cfg.FrontendURL + "/checkout",
	})
	if err != nil {
		return err
	}
	return q.mailer.Send(ctx, Message{
		To:         Address{Email: job.User.Email, Name: job.User.Name},
		Subject:    Subject(job.Stack),
		HTML:       html,
		Categories: []string{"ai-stack"},
	})
}
