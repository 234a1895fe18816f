package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

// LocalQueue is a fallback start-signal queue used when Redis is not
// configured.
type LocalQueue struct {
	ch          chan domain.StartSignal
	maxAttempts int
	logger      *log.Logger

	dlqMu sync.Mutex
	dlq   []domain.StartSignal
}

func NewLocalQueue(bufferSize, maxAttempts int, logger *log.Logger) *LocalQueue {
	if bufferSize <= 0 {
		bufferSize = 512
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &LocalQueue{
		ch:          make(chan domain.StartSignal, bufferSize),
		maxAttempts: maxAttempts,
		logger:      logger,
		dlq:         make([]domain.StartSignal, 0),
	}
}

func (q *LocalQueue) Enqueue(ctx context.Context, signal domain.StartSignal) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.ch <- signal:
		return nil
	}
}

func (q *LocalQueue) Consume(ctx context.Context, handler func(context.Context, domain.StartSignal) error) error {
	attempts := make(map[string]int)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case signal := <-q.ch:
			err := handler(ctx, signal)
			if err == nil {
				delete(attempts, signal.JobID)
				continue
			}

			attempts[signal.JobID]++
			if attempts[signal.JobID] >= q.maxAttempts {
				q.dlqMu.Lock()
				q.dlq = append(q.dlq, signal)
				q.dlqMu.Unlock()
				delete(attempts, signal.JobID)
				if q.logger != nil {
					q.logger.Printf("local queue moved signal to DLQ job_id=%s err=%v", signal.JobID, err)
				}
				continue
			}

			delay := time.Duration(attempts[signal.JobID]) * 500 * time.Millisecond
			go func(retry domain.StartSignal) {
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-ctx.Done():
					return
				case <-timer.C:
					q.ch <- retry
				}
			}(signal)
		}
	}
}

func (q *LocalQueue) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}
