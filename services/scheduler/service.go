// Package scheduler runs background refresh tasks on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownTask    = errors.New("unknown task")
	ErrTaskRunning    = errors.New("task already running")
	ErrAlreadyStarted = errors.New("scheduler already started")
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// TaskStatus reports the last outcome of a task.
type TaskStatus struct {
	Name      string     `json:"name"`
	Running   bool       `json:"running"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// Service triggers every task on one cron spec. A task never overlaps with
// itself; a trigger that arrives while it is still running is skipped.
type Service struct {
	spec    string
	timeout time.Duration
	tasks   map[string]Task
	order   []string

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	// Task state tracking (in-memory, not persisted)
	taskMu      sync.RWMutex
	taskRunning map[string]bool
	status      map[string]TaskStatus
}

// NewService validates spec (standard 5-field cron) and registers tasks.
// timeout bounds a single task run; zero means 5 minutes.
func NewService(spec string, loc *time.Location, timeout time.Duration, tasks ...Task) (*Service, error) {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	s := &Service{
		spec:        spec,
		timeout:     timeout,
		tasks:       make(map[string]Task, len(tasks)),
		cron:        c,
		taskRunning: make(map[string]bool),
		status:      make(map[string]TaskStatus),
	}
	for _, t := range tasks {
		if t.Name == "" || t.Run == nil {
			return nil, errors.New("task needs a name and a run func")
		}
		if _, dup := s.tasks[t.Name]; dup {
			return nil, fmt.Errorf("duplicate task %q", t.Name)
		}
		s.tasks[t.Name] = t
		s.order = append(s.order, t.Name)
		s.status[t.Name] = TaskStatus{Name: t.Name}
	}
	return s, nil
}

// Start registers the cron entry and, when warm is set, runs every task once
// in the background right away.
func (s *Service) Start(ctx context.Context, warm bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyStarted
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, s.runAll); err != nil {
		s.cancel()
		return fmt.Errorf("schedule tasks: %w", err)
	}
	s.cron.Start()
	s.running = true

	if warm {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runAll()
		}()
	}

	log.Printf("[scheduler] started with %d task(s) on %q", len(s.tasks), s.spec)
	return nil
}

// Stop cancels in-flight tasks and waits for them until ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		log.Println("[scheduler] stopped gracefully")
	case <-ctx.Done():
		log.Println("[scheduler] stopped (timeout)")
		err = ctx.Err()
	}

	s.running = false
	return err
}

// RunNow executes one task synchronously.
func (s *Service) RunNow(ctx context.Context, name string) error {
	task, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return s.execute(ctx, task)
}

// Status returns every task's state in registration order.
func (s *Service) Status() []TaskStatus {
	s.taskMu.RLock()
	defer s.taskMu.RUnlock()

	out := make([]TaskStatus, 0, len(s.order))
	for _, name := range s.order {
		st := s.status[name]
		st.Running = s.taskRunning[name]
		out = append(out, st)
	}
	return out
}

func (s *Service) runAll() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	var wg sync.WaitGroup
	for _, name := range s.order {
		task := s.tasks[name]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.execute(ctx, task); err != nil && !errors.Is(err, ErrTaskRunning) {
				log.Printf("[scheduler] task %s failed: %v", task.Name, err)
			}
		}()
	}
	wg.Wait()
}

// execute runs a task unless it is already running and records its outcome.
func (s *Service) execute(ctx context.Context, task Task) error {
	s.taskMu.Lock()
	if s.taskRunning[task.Name] {
		s.taskMu.Unlock()
		log.Printf("[scheduler] skipping %s: previous run still in progress", task.Name)
		return ErrTaskRunning
	}
	s.taskRunning[task.Name] = true
	s.taskMu.Unlock()

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := task.Run(runCtx)
	cancel()
	elapsed := time.Since(start)

	s.taskMu.Lock()
	delete(s.taskRunning, task.Name)
	st := TaskStatus{Name: task.Name, LastRunAt: &start, Duration: elapsed.Round(time.Millisecond).String()}
	if err != nil {
		st.LastError = err.Error()
	}
	s.status[task.Name] = st
	s.taskMu.Unlock()

	log.Printf("[scheduler] task %s finished in %s (err=%v)", task.Name, st.Duration, err)
	return err
}
