// Package algoscript is the embeddable driver API for the algoscript
// interpreter: load, lex, parse, and interpret a program in one call.
// Every call gets a fresh global scope, re-initialised before every
// top-level run.
package algoscript

import (
	"context"
	"time"

	algoerrors "github.com/algoscript/algoscript/internal/errors"
	"github.com/algoscript/algoscript/internal/host"
	"github.com/algoscript/algoscript/internal/interp"
)

// Engine is a reusable algoscript runner: its Host, PRNG seed, and
// step budget are fixed at construction, then shared across Run calls.
type Engine struct {
	host     host.Host
	seed     int64
	maxSteps int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithHost overrides the default stdio host. Embedders that capture
// output in memory (a test, a web terminal) supply their own host.Host.
func WithHost(h host.Host) Option {
	return func(e *Engine) { e.host = h }
}

// WithSeed fixes the PRNG seed consumed by the nombreAleatoire built-in.
// Without this option the seed is derived from the current time, so two
// Engines built moments apart will not reproduce the same random draws.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithMaxSteps bounds the number of cooperative suspension points an
// Engine's runs may take before aborting as if cancelled, a
// belt-and-braces execution budget on top of context cancellation. Zero
// (the default) means unbounded.
func WithMaxSteps(n int) Option {
	return func(e *Engine) { e.maxSteps = n }
}

// New builds an Engine. With no options it writes to stdout, reads from
// stdin, and seeds its PRNG from the current time.
func New(opts ...Option) *Engine {
	e := &Engine{seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(e)
	}
	if e.host == nil {
		e.host = host.NewStd()
	}
	return e
}

// RunContext lexes, parses, and interprets src under the given file
// name, honoring ctx for cooperative cancellation. A
// *algoerrors.Error is returned for a lex/parse failure, a
// *algoerrors.RuntimeError for a failure during evaluation.
func (e *Engine) RunContext(ctx context.Context, file, src string) error {
	it := interp.New(e.host, e.seed)
	it.MaxSteps = e.maxSteps
	return it.Run(ctx, file, src)
}

// Run is RunContext with context.Background(), for embedders that have
// no cancellation source of their own.
func (e *Engine) Run(file, src string) error {
	return e.RunContext(context.Background(), file, src)
}

// Run runs src as "<program>" against the default stdio host, with no
// step budget and a time-derived PRNG seed. It is the package-level
// convenience for a one-shot script run; embedders that need a custom
// host, a fixed seed, or to run multiple scripts against the same
// PRNG state should build an *Engine with New instead.
func Run(src string) error {
	return New().Run("<program>", src)
}

// RunContext is the context-aware counterpart of Run.
func RunContext(ctx context.Context, src string) error {
	return New().RunContext(ctx, "<program>", src)
}

// IsRuntimeError reports whether err is an algoscript runtime failure
// (as opposed to a lex/parse error), letting an embedder distinguish "the
// script ran and failed" from "the script never started". Cancellation,
// an exhausted step budget, and host I/O failures during evaluation are
// runtime errors too.
func IsRuntimeError(err error) bool {
	_, ok := err.(*algoerrors.RuntimeError)
	return ok
}
