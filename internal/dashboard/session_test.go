package dashboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hourglass/internal/clockify"
	"github.com/Tiliavir/hourglass/internal/dashboard"
	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/report"
	"github.com/Tiliavir/hourglass/internal/stats"
)

type fakeFetcher struct {
	mu         sync.Mutex
	user       model.User
	userErr    error
	workspaces []model.Workspace
	snap       *clockify.Snapshot
	snapErr    error
	// hold, when set, is received from before a snapshot for start is returned.
	hold  map[string]chan struct{}
	enter chan string
}

func (f *fakeFetcher) GetUser(context.Context) (model.User, error) {
	return f.user, f.userErr
}

func (f *fakeFetcher) GetWorkspaces(context.Context) ([]model.Workspace, error) {
	return f.workspaces, nil
}

func (f *fakeFetcher) FetchSnapshot(_ context.Context, _, _, start, _ string) (*clockify.Snapshot, error) {
	f.mu.Lock()
	ch := f.hold[start]
	snap, err := f.snap, f.snapErr
	f.mu.Unlock()
	if f.enter != nil {
		f.enter <- start
	}
	if ch != nil {
		<-ch
	}
	return snap, err
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		user:       model.User{ID: "u1", Name: "Jane Doe", DefaultWorkspace: "ws2"},
		workspaces: []model.Workspace{{ID: "ws1", Name: "One"}, {ID: "ws2", Name: "Two"}},
		snap: &clockify.Snapshot{
			Projects: []model.Project{{ID: "p1", Name: "Alpha", Color: "#ff0000"}},
			Entries: []model.TimeEntry{
				{ID: "e1", ProjectID: "p1", Description: "build", TimeInterval: &model.TimeInterval{Start: "2025-01-06T09:00:00Z", End: "2025-01-06T17:00:00Z"}},
				{ID: "e2", ProjectID: "gone", TimeInterval: &model.TimeInterval{Start: "2025-01-07T10:00:00Z", End: "2025-01-07T09:00:00Z"}},
			},
		},
	}
}

func newSession(f dashboard.Fetcher, opts ...func(*dashboard.Options)) *dashboard.Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := dashboard.Options{
		Fetcher:  f,
		Location: time.UTC,
		Logger:   logger,
		Renderer: &report.Renderer{Logger: logger, Attribution: report.DefaultAttribution},
	}
	for _, fn := range opts {
		fn(&o)
	}
	return dashboard.New(o)
}

var custom = dashboard.Range{Start: "2025-01-01", End: "2025-01-31"}

func TestLoginPicksWorkspace(t *testing.T) {
	s := newSession(newFetcher())
	user, ws, err := s.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "ws2", ws.ID, "user default wins over first")

	s = newSession(newFetcher(), func(o *dashboard.Options) { o.WorkspaceID = "ws1" })
	_, ws, err = s.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ws1", ws.ID, "configured workspace wins")
	assert.Len(t, s.Workspaces(), 2)
}

func TestLoginFailureResetsSession(t *testing.T) {
	f := newFetcher()
	s := newSession(f)
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)
	_, err = s.Load(context.Background(), custom)
	require.NoError(t, err)

	f.userErr = &clockify.APIError{Status: 401, Body: "bad key"}
	_, _, err = s.Login(context.Background())
	assert.ErrorIs(t, err, clockify.ErrUnauthorized)

	_, _, ok := s.User()
	assert.False(t, ok)
	assert.Nil(t, s.View())
	assert.Empty(t, s.Workspaces())

	_, err = s.Load(context.Background(), custom)
	assert.ErrorIs(t, err, dashboard.ErrNotLoggedIn)
}

func TestLoginWithoutWorkspace(t *testing.T) {
	f := newFetcher()
	f.workspaces = nil
	_, _, err := newSession(f).Login(context.Background())
	assert.ErrorIs(t, err, dashboard.ErrNoWorkspace)
}

func TestLoadBuildsView(t *testing.T) {
	s := newSession(newFetcher())
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)

	view, err := s.Load(context.Background(), custom)
	require.NoError(t, err)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "Alpha", view.Entries[0].ProjectName)
	assert.Equal(t, "No Project", view.Entries[1].ProjectName)
	assert.Equal(t, int64(7*3_600_000), view.Stats.TotalMs)
	assert.Equal(t, 2, view.Stats.TotalDays)
	require.Len(t, view.Warnings, 1)
	assert.Equal(t, "e2", view.Warnings[0].EntryID)
	assert.Equal(t, stats.StatusNeutral, view.Target.Status)
	assert.Same(t, view, s.View())
}

func TestLoadComparesPeriodTarget(t *testing.T) {
	s := newSession(newFetcher())
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)

	r, err := dashboard.ResolveRange("", "", "jan-2025", time.Now())
	require.NoError(t, err)
	view, err := s.Load(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, stats.StatusBelow, view.Target.Status)
	assert.InDelta(t, 177.0, view.Target.Delta, 1e-9)
}

func TestFailedLoadClearsView(t *testing.T) {
	f := newFetcher()
	s := newSession(f)
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)
	_, err = s.Load(context.Background(), custom)
	require.NoError(t, err)

	f.snapErr = errors.New("network down")
	_, err = s.Load(context.Background(), custom)
	assert.EqualError(t, err, "network down")
	assert.Nil(t, s.View())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	f := newFetcher()
	release := make(chan struct{})
	f.hold = map[string]chan struct{}{"2025-01-01": release}
	f.enter = make(chan string, 2)

	s := newSession(f)
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)

	slow := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), custom)
		slow <- err
	}()
	require.Equal(t, "2025-01-01", <-f.enter)

	fresh := dashboard.Range{Start: "2025-02-01", End: "2025-02-28"}
	view, err := s.Load(context.Background(), fresh)
	require.NoError(t, err)
	<-f.enter

	close(release)
	assert.ErrorIs(t, <-slow, dashboard.ErrStale)
	assert.Same(t, view, s.View())
	assert.Equal(t, fresh, s.View().Range)
}

func TestReport(t *testing.T) {
	s := newSession(newFetcher())
	_, err := s.Report(context.Background(), custom)
	assert.ErrorIs(t, err, dashboard.ErrNotLoggedIn)

	_, _, err = s.Login(context.Background())
	require.NoError(t, err)
	doc, err := s.Report(context.Background(), custom)
	require.NoError(t, err)
	assert.Equal(t, "Report_JaneDoe_CustomPeriod2025.pdf", doc.FileName)
	assert.Equal(t, 3, doc.Pages)
}

func TestReportEmptyRange(t *testing.T) {
	f := newFetcher()
	f.snap = &clockify.Snapshot{}
	s := newSession(f)
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)
	_, err = s.Report(context.Background(), custom)
	assert.ErrorIs(t, err, report.ErrNoEntries)
}

func TestLogout(t *testing.T) {
	s := newSession(newFetcher())
	_, _, err := s.Login(context.Background())
	require.NoError(t, err)
	s.Logout()
	_, _, ok := s.User()
	assert.False(t, ok)
}
