package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/femivideograph/script-ai-worker/internal/domain"
	"github.com/femivideograph/script-ai-worker/internal/jobs"
	"github.com/femivideograph/script-ai-worker/internal/queue"
)

// Processor consumes start signals and hands them to the dispatcher.
type Processor struct {
	consumer   queue.Consumer
	dispatcher *jobs.Dispatcher
	logger     *log.Logger
}

func NewProcessor(consumer queue.Consumer, dispatcher *jobs.Dispatcher, logger *log.Logger) *Processor {
	return &Processor{
		consumer:   consumer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (p *Processor) Start(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		err := p.consumer.Consume(ctx, p.handleSignal)
		if err == nil || ctx.Err() != nil {
			return
		}
		if p.logger != nil {
			p.logger.Printf("worker consume loop error: %v", err)
		}

		timer := time.NewTimer(2 * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (p *Processor) handleSignal(ctx context.Context, signal domain.StartSignal) error {
	err := p.dispatcher.Start(ctx, signal.JobID, signal.SourceKey)
	if err == nil {
		if p.logger != nil {
			p.logger.Printf("job dispatched job_id=%s", signal.JobID)
		}
		return nil
	}

	// At-least-once delivery makes duplicate signals routine; ack them
	// instead of churning the queue.
	if errors.Is(err, jobs.ErrAlreadyRunning) {
		if p.logger != nil {
			p.logger.Printf("duplicate start signal ignored job_id=%s", signal.JobID)
		}
		return nil
	}
	return err
}
