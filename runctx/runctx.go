// Copyright 2026 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package runctx runs a set of long-lived functions until one of them fails or the process is signaled.
package runctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// DefaultNotifySignals specifies signals that would cause the context to be canceled.
var DefaultNotifySignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

type Func func(ctx context.Context) error

// Group runs functions concurrently with a shared context.
// The context is canceled when any function returns an error, the parent context is done,
// or one of NotifySignals is received.
type Group struct {
	NotifySignals []os.Signal

	// OnSignal is called with the first received signal before the context is canceled.
	OnSignal func(sig os.Signal)

	funcs []Func
}

func NewGroup(fn ...Func) *Group {
	return &Group{
		funcs: fn,
	}
}

func (g *Group) Add(fn Func) {
	g.funcs = append(g.funcs, fn)
}

func (g *Group) Len() int {
	return len(g.funcs)
}

func (g *Group) Run() error {
	return g.RunContext(context.Background())
}

func (g *Group) RunContext(ctx context.Context) error {
	sigs := g.NotifySignals
	if len(sigs) == 0 {
		sigs = DefaultNotifySignals
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	defer signal.Stop(ch)

	eg, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case sig := <-ch:
			if g.OnSignal != nil {
				g.OnSignal(sig)
			}
			cancel()
		case <-stop:
		}
	}()

	for _, fn := range g.funcs {
		fn := fn
		eg.Go(func() error { return fn(ctx) })
	}

	err := eg.Wait()
	close(stop)
	<-watchDone

	return err
}
