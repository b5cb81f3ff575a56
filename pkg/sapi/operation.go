package sapi

import "sync"

// Operation is a resumable handle to one in-flight network transfer.
// Operations are not auto-started: Start must be called to begin work.
// Stop suspends delivery without discarding a buffered completion; a
// later Start resumes and flushes it. There is no hard abort, so a
// completion already in flight may still be delivered.
type Operation struct {
	mu        sync.Mutex
	begin     func()
	started   bool
	suspended bool
	pending   func()
	finished  bool
}

// Start begins the transfer on first call, or resumes a suspended
// operation. Resuming delivers any completion buffered while suspended.
func (op *Operation) Start() {
	op.mu.Lock()

	if op.finished {
		op.mu.Unlock()

		return
	}

	if !op.started {
		op.started = true
		op.suspended = false
		begin := op.begin
		op.mu.Unlock()

		if begin != nil {
			begin()
		}

		return
	}

	op.suspended = false
	pending := op.pending
	op.pending = nil

	if pending != nil {
		op.finished = true
	}

	op.mu.Unlock()

	if pending != nil {
		pending()
	}
}

// Stop suspends the operation. The transfer's result, if it arrives
// while suspended, is buffered and delivered on the next Start.
func (op *Operation) Stop() {
	op.mu.Lock()
	defer op.mu.Unlock()

	if !op.finished {
		op.suspended = true
	}
}

// deliver hands the completion through the suspension gate: buffered
// while suspended, invoked immediately otherwise.
func (op *Operation) deliver(completion func()) {
	op.mu.Lock()

	if op.suspended {
		op.pending = completion
		op.mu.Unlock()

		return
	}

	op.finished = true
	op.mu.Unlock()

	completion()
}
