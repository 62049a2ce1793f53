package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/zeu5/cheese-rl/cmd/common"
)

// flags is populated by RootCommand, after the environment has been loaded
var flags *common.Flags

// interruptContext is cancelled on an interrupt from the os or when done is called
func interruptContext() (ctx context.Context, done func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}
