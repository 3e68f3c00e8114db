package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"uniaid/internal/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCanceled   = errors.New("payment authorization canceled")
	ErrPoolClosed = errors.New("payment worker pool is stopped")
)

const MaxWorkers = 10

// Request identifies what is being paid. Card data is never collected.
type Request struct {
	PayerID    string
	CampaignID string
	Amount     decimal.Decimal
}

type Authorization struct {
	ID         string
	Request    Request
	ApprovedAt time.Time
}

// Gateway simulates a card processor: every request is approved once the
// processing delay has passed.
type Gateway struct {
	Delay time.Duration
}

func NewGateway(delay time.Duration) *Gateway {
	return &Gateway{Delay: delay}
}

// Authorize blocks for the processing delay. If ctx ends first it returns
// ErrCanceled and no authorization exists.
func (g *Gateway) Authorize(ctx context.Context, req Request) (*Authorization, error) {
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	case <-timer.C:
	}

	return &Authorization{
		ID:         uuid.NewString(),
		Request:    req,
		ApprovedAt: time.Now().UTC(),
	}, nil
}

type Task struct {
	Ctx        context.Context
	Request    Request
	ResultChan chan<- *Authorization
	ErrorChan  chan<- error
}

// WorkerPool bounds the number of authorizations in flight.
type WorkerPool struct {
	gateway    *Gateway
	tasks      chan Task
	wg         sync.WaitGroup
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	closed     bool
	mu         sync.Mutex
}

func NewWorkerPool(ctx context.Context, gateway *Gateway, maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = MaxWorkers
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		gateway:    gateway,
		tasks:      make(chan Task, 100),
		maxWorkers: maxWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.maxWorkers; i++ {
		go wp.worker()
	}
}

// Stop cancels in-flight authorizations and waits for the workers.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return
	}

	close(wp.tasks)
	wp.cancel()
	wp.closed = true
	wp.wg.Wait()
}

// AddTask queues a task. Result and error channels should be buffered;
// the worker does not wait for a reader.
func (wp *WorkerPool) AddTask(task Task) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return ErrPoolClosed
	}
	if task.Ctx == nil {
		task.Ctx = context.Background()
	}

	wp.wg.Add(1)
	select {
	case wp.tasks <- task:
		return nil
	case <-task.Ctx.Done():
		wp.wg.Done()
		return fmt.Errorf("%w: %w", ErrCanceled, task.Ctx.Err())
	case <-wp.ctx.Done():
		wp.wg.Done()
		return ErrPoolClosed
	}
}

// Authorize runs one request through the pool and waits for the outcome.
func (wp *WorkerPool) Authorize(ctx context.Context, req Request) (*Authorization, error) {
	resultChan := make(chan *Authorization, 1)
	errorChan := make(chan error, 1)

	err := wp.AddTask(Task{Ctx: ctx, Request: req, ResultChan: resultChan, ErrorChan: errorChan})
	if err != nil {
		return nil, err
	}

	select {
	case auth := <-resultChan:
		return auth, nil
	case err := <-errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	}
}

func (wp *WorkerPool) worker() {
	for task := range wp.tasks {
		auth, err := wp.processTask(task)
		if err != nil {
			logging.Logg.Warn("Payment authorization failed", "payer_id", task.Request.PayerID, "campaign_id", task.Request.CampaignID, "error", err)
			if task.ErrorChan != nil {
				task.ErrorChan <- err
			}
		} else if task.ResultChan != nil {
			task.ResultChan <- auth
		}
		wp.wg.Done()
	}
}

func (wp *WorkerPool) processTask(task Task) (*Authorization, error) {
	ctx, cancel := context.WithCancel(task.Ctx)
	defer cancel()
	stop := context.AfterFunc(wp.ctx, cancel)
	defer stop()

	return wp.gateway.Authorize(ctx, task.Request)
}
