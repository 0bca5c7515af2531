package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

type implService struct {
	store  task.Store
	collab Collaborators
	opts   Options
	logger logger.Logger
	slots  *slots
	newID  func() string

	// queueCtx is cancelled when Shutdown starts, runCtx when it gives up waiting.
	queueCtx    context.Context
	cancelQueue context.CancelFunc
	runCtx      context.Context
	cancelRun   context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates the pipeline Service. The store is shared with nobody else
// writing task fields while a pipeline runs.
func New(store task.Store, collab Collaborators, opts Options, log logger.Logger) Service {
	return newService(store, collab, opts, log)
}

func newService(store task.Store, collab Collaborators, opts Options, log logger.Logger) *implService {
	if opts.QuizQuestions <= 0 {
		opts.QuizQuestions = 5
	}
	queueCtx, cancelQueue := context.WithCancel(context.Background())
	runCtx, cancelRun := context.WithCancel(context.Background())

	return &implService{
		store:       store,
		collab:      collab,
		opts:        opts,
		logger:      log,
		slots:       newSlots(opts.MaxConcurrent),
		newID:       uuid.NewString,
		queueCtx:    queueCtx,
		cancelQueue: cancelQueue,
		runCtx:      runCtx,
		cancelRun:   cancelRun,
	}
}
