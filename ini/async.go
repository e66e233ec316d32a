// Copyright 2026 The Confedit Authors
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"sync"

	"github.com/confedit/confedit/dialect"
	"zombiezen.com/go/log"
)

// queueDepth bounds the deferred-write queue. Enqueueing past it
// blocks the writer until the worker catches up.
const queueDepth = 16

// Shared wraps a Parser for concurrent use: every access to the text
// and its token cache runs under one exclusive lock. With DeferWrites
// set, each write returns as soon as its arguments are validated and
// the splice itself runs on a background worker, so a read issued
// before Flush may still observe the text from before that write.
// Flush is the read barrier.
//
// Argument validation always happens on the calling goroutine, so the
// panics for invalid keys and sections surface where the bad call was
// made.
type Shared struct {
	p      *Parser
	defers bool
	ctx    context.Context

	mu      sync.Mutex
	idle    sync.Cond
	pending int
	closed  bool

	jobs chan func()
	done chan struct{}
}

// SharedOptions configures NewShared.
type SharedOptions struct {
	// DeferWrites moves write splices onto a background worker. Writes
	// then return before the new text is observable; call Flush to
	// read your own writes.
	DeferWrites bool
}

// NewShared returns a concurrency-safe wrapper around p. The caller
// must stop using p directly. ctx scopes the worker's logging only;
// cancelling it does not stop the worker, Close does.
func NewShared(ctx context.Context, p *Parser, opts *SharedOptions) *Shared {
	s := &Shared{
		p:    p,
		ctx:  context.WithoutCancel(ctx),
		jobs: make(chan func(), queueDepth),
		done: make(chan struct{}),
	}
	if opts != nil {
		s.defers = opts.DeferWrites
	}
	s.idle.L = &s.mu
	go s.run()
	return s
}

func (s *Shared) run() {
	defer close(s.done)
	for job := range s.jobs {
		s.mu.Lock()
		job()
		s.pending--
		if s.pending == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
		log.Debugf(s.ctx, "confedit: deferred write applied")
	}
}

// enqueue hands op to the worker. It runs op inline under the lock
// when writes are synchronous or the worker is gone. pending is
// raised before the channel send so that Flush and Close account for
// a write that is still waiting for queue space.
func (s *Shared) enqueue(op func()) {
	s.mu.Lock()
	if !s.defers || s.closed {
		op()
		s.mu.Unlock()
		return
	}
	s.pending++
	s.mu.Unlock()
	s.jobs <- op
}

// Dialect returns a copy of the wrapped parser's dialect.
func (s *Shared) Dialect() dialect.Dialect { return s.p.Dialect() }

// Sections behaves like Parser.Sections.
func (s *Shared) Sections() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Sections()
}

// Keys behaves like Parser.Keys.
func (s *Shared) Keys(section string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Keys(section)
}

// Lookup behaves like Parser.Lookup. With writes still queued it runs
// against the older text; call Flush first for read-your-writes
// ordering.
func (s *Shared) Lookup(section, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Lookup(section, key)
}

// Get behaves like Parser.Get.
func (s *Shared) Get(section, key string) string {
	v, _ := s.Lookup(section, key)
	return v
}

// Value behaves like Parser.Value.
func (s *Shared) Value(section, key, def string) string {
	if v, ok := s.Lookup(section, key); ok {
		return v
	}
	return def
}

// Find behaves like Parser.Find.
func (s *Shared) Find(section, key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Find(section, key)
}

// SetValue behaves like Parser.SetValue under the wrapper's deferral
// policy.
func (s *Shared) SetValue(section, key, value string) {
	s.p.checkWrite("SetValue", section, key)
	s.p.checkValue("SetValue", value)
	s.enqueue(func() {
		s.p.SetValue(section, key, value)
	})
}

// SetValues behaves like Parser.SetValues under the wrapper's deferral
// policy. The slice is copied before handoff; the caller may reuse it.
func (s *Shared) SetValues(section, key string, values []string) {
	s.p.checkWrite("SetValues", section, key)
	for _, v := range values {
		s.p.checkValue("SetValues", v)
	}
	vals := append([]string(nil), values...)
	s.enqueue(func() {
		s.p.SetValues(section, key, vals)
	})
}

// Content behaves like Parser.Content. With writes still queued it
// returns the older text; call Flush first to include them.
func (s *Shared) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Content()
}

// SetContent behaves like Parser.SetContent under the wrapper's
// deferral policy.
func (s *Shared) SetContent(content string) {
	s.enqueue(func() {
		s.p.SetContent(content)
	})
}

// Flush blocks until every write enqueued before the call has been
// applied.
func (s *Shared) Flush() {
	s.mu.Lock()
	for s.pending > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Close drains the queue and stops the worker. The wrapper stays
// usable: later writes apply inline under the lock and reads keep
// working.
func (s *Shared) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	for s.pending > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
	close(s.jobs)
	<-s.done
	log.Debugf(s.ctx, "confedit: shared parser closed")
}
