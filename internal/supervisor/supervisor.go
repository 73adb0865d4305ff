// Package supervisor runs the collaborator goroutines and enforces
// fail-fast shutdown: if any collaborator stops for any reason other than
// context cancellation, the whole process must come down. Partial
// operation would be invisible from the couch.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Collaborator is one independently scheduled execution context.
type Collaborator struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run starts every collaborator and blocks until the context is cancelled
// or one of them fails. Collaborator loops are endless by contract, so a
// nil return is treated as a failure too. Returns nil only on a clean
// cancellation.
func Run(ctx context.Context, logger *slog.Logger, collaborators ...Collaborator) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, c := range collaborators {
		c := c
		logger.Info("starting collaborator", "name", c.Name)
		g.Go(func() error {
			err := c.Run(ctx)
			if errors.Is(err, context.Canceled) {
				logger.Info("collaborator stopped", "name", c.Name)
				return err
			}
			if err == nil {
				err = errors.New("exited without error")
			}
			logger.Error("collaborator died", "name", c.Name, "error", err)
			return fmt.Errorf("collaborator %s: %w", c.Name, err)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
