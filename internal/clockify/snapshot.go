package clockify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/hourglass/internal/model"
)

// Snapshot is the raw data needed to build one dashboard view.
type Snapshot struct {
	Projects []model.Project
	Entries  []model.TimeEntry
}

// FetchSnapshot loads the project directory and the time entries of the
// range concurrently. Either failure fails the whole snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, workspaceID, userID, startDate, endDate string) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := c.GetProjects(gctx, workspaceID)
		if err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}
		snap.Projects = ps
		return nil
	})
	g.Go(func() error {
		es, err := c.GetTimeEntries(gctx, workspaceID, userID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("fetching time entries: %w", err)
		}
		snap.Entries = es
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
