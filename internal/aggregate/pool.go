package aggregate

import (
	"context"
	"fmt"
)

const (
	DefaultWorkers = 20
	WorkerCeiling  = 50
)

type EventKind string

const (
	EventStarted   EventKind = "started"
	EventProgress  EventKind = "progress"
	EventTaskError EventKind = "task_error"
	EventCompleted EventKind = "completed"
)

// Event is one notification from a run. Progress arrives once per
// finished task, in completion order, with Done strictly increasing.
// The terminal Completed event carries the result map; a store whose
// task failed got one TaskError event and is absent from the map.
type Event[T any] struct {
	Kind    EventKind
	Done    int
	Total   int
	Store   string
	Err     error
	Results map[string]T
}

type Task[T any] func(ctx context.Context, store string) (T, error)

func ClampWorkers(n int) int {
	if n <= 0 {
		return DefaultWorkers
	}
	if n > WorkerCeiling {
		return WorkerCeiling
	}
	return n
}

// Run fans task out over stores with at most workers tasks in flight and
// returns the event stream. Every store is submitted exactly once. The
// channel is buffered for a full run and closed after Completed, so the
// producer never blocks on a slow consumer. Cancelling ctx aborts
// in-flight calls and fails stores not yet started; the run still
// terminates with whatever results exist.
func Run[T any](ctx context.Context, stores []string, workers int, task Task[T]) <-chan Event[T] {
	events := make(chan Event[T], 2*len(stores)+2)

	go func() {
		defer close(events)

		total := len(stores)
		events <- Event[T]{Kind: EventStarted, Total: total}

		workers = ClampWorkers(workers)
		if workers > total {
			workers = total
		}

		type taskResult struct {
			store string
			value T
			err   error
		}

		jobs := make(chan string)
		finished := make(chan taskResult)

		for i := 0; i < workers; i++ {
			go func() {
				for store := range jobs {
					value, err := runTask(ctx, store, task)
					finished <- taskResult{store: store, value: value, err: err}
				}
			}()
		}

		go func() {
			defer close(jobs)
			for _, store := range stores {
				select {
				case jobs <- store:
				case <-ctx.Done():
					finished <- taskResult{store: store, err: ctx.Err()}
				}
			}
		}()

		// Only this goroutine writes the result map.
		results := make(map[string]T, total)
		for done := 1; done <= total; done++ {
			res := <-finished
			if res.err != nil {
				events <- Event[T]{Kind: EventTaskError, Store: res.store, Err: res.err, Total: total}
			} else {
				results[res.store] = res.value
			}
			events <- Event[T]{Kind: EventProgress, Done: done, Total: total}
		}

		events <- Event[T]{Kind: EventCompleted, Done: total, Total: total, Results: results}
	}()

	return events
}

// runTask guards one unit of work: a cancelled context fails it before
// any network call, and a panic is converted into a task error instead
// of taking the whole run down.
func runTask[T any](ctx context.Context, store string, task Task[T]) (value T, err error) {
	if err = ctx.Err(); err != nil {
		return value, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx, store)
}
