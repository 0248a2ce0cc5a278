package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestAwaitShutdown(t *testing.T) {
	listenErr := errors.New("listen tcp :80: bind: permission denied")

	tests := []struct {
		name    string
		task    func(ctx context.Context) error
		signal  bool
		wantErr error
	}{
		{
			name:    "task failure stops the bot",
			task:    func(context.Context) error { return listenErr },
			wantErr: listenErr,
		},
		{
			name: "signal stops every task",
			task: func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
			signal: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return tt.task(gctx) })
			if tt.signal {
				cancel()
			}

			done := make(chan error, 1)
			go func() { done <- awaitShutdown(ctx, gctx, g) }()

			select {
			case err := <-done:
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					assert.NoError(t, ctx.Err(), "shutdown must not wait for a signal")
					return
				}
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("awaitShutdown() did not return")
			}
		})
	}
}
