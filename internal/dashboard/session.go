// Package dashboard ties the API client to enrichment, aggregation and
// report rendering for one logged-in user.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Tiliavir/hourglass/internal/clockify"
	"github.com/Tiliavir/hourglass/internal/enrich"
	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/report"
	"github.com/Tiliavir/hourglass/internal/stats"
)

var (
	// ErrNotLoggedIn is returned by Load and Report before a successful Login.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNoWorkspace is returned when the account has no workspace.
	ErrNoWorkspace = errors.New("account has no workspace")
	// ErrStale is returned by a load that was overtaken by a newer one.
	ErrStale = errors.New("superseded by a newer request")
)

// Fetcher is the subset of the API client the session needs.
type Fetcher interface {
	GetUser(ctx context.Context) (model.User, error)
	GetWorkspaces(ctx context.Context) ([]model.Workspace, error)
	FetchSnapshot(ctx context.Context, workspaceID, userID, startDate, endDate string) (*clockify.Snapshot, error)
}

// View is the result of one successful load.
type View struct {
	Range      Range            `json:"range"`
	Entries    []model.Entry    `json:"entries"`
	Stats      stats.Statistics `json:"-"`
	Target     stats.Target     `json:"target"`
	Warnings   []enrich.Warning `json:"-"`
	Generation uint64           `json:"generation"`
	LoadedAt   time.Time        `json:"loadedAt"`
}

// Options configures a Session.
type Options struct {
	Fetcher Fetcher
	// WorkspaceID selects a workspace at login. Empty means the user's default.
	WorkspaceID string
	Profile     *model.BillingProfile
	Location    *time.Location
	Logger      *slog.Logger
	Renderer    *report.Renderer
}

// Session holds the authenticated user and the most recent view.
// It is safe for concurrent use.
type Session struct {
	fetcher     Fetcher
	preferredWS string
	profile     *model.BillingProfile
	loc         *time.Location
	logger      *slog.Logger
	renderer    *report.Renderer

	mu         sync.Mutex
	generation uint64
	user       *model.User
	workspace  model.Workspace
	workspaces []model.Workspace
	view       *View
}

// New returns a logged-out session.
func New(opts Options) *Session {
	s := &Session{
		fetcher:     opts.Fetcher,
		preferredWS: opts.WorkspaceID,
		profile:     opts.Profile,
		loc:         opts.Location,
		logger:      opts.Logger,
		renderer:    opts.Renderer,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.renderer == nil {
		s.renderer = report.NewRenderer(s.logger)
	}
	return s
}

// Login verifies the credential and selects a workspace. On failure the
// session is left fully logged out.
func (s *Session) Login(ctx context.Context) (model.User, model.Workspace, error) {
	user, ws, all, err := s.login(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.view = nil
	if err != nil {
		s.user = nil
		s.workspace = model.Workspace{}
		s.workspaces = nil
		return model.User{}, model.Workspace{}, err
	}
	s.user = &user
	s.workspace = ws
	s.workspaces = all
	s.logger.Info("logged in", "user", user.Name, "workspace", ws.Name)
	return user, ws, nil
}

func (s *Session) login(ctx context.Context) (model.User, model.Workspace, []model.Workspace, error) {
	user, err := s.fetcher.GetUser(ctx)
	if err != nil {
		return model.User{}, model.Workspace{}, nil, fmt.Errorf("fetching user: %w", err)
	}
	all, err := s.fetcher.GetWorkspaces(ctx)
	if err != nil {
		return model.User{}, model.Workspace{}, nil, fmt.Errorf("fetching workspaces: %w", err)
	}
	ws, ok := pickWorkspace(all, s.preferredWS, user.DefaultWorkspace)
	if !ok {
		return model.User{}, model.Workspace{}, nil, ErrNoWorkspace
	}
	return user, ws, all, nil
}

func pickWorkspace(all []model.Workspace, ids ...string) (model.Workspace, bool) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		for _, w := range all {
			if w.ID == id {
				return w, true
			}
		}
	}
	if len(all) == 0 {
		return model.Workspace{}, false
	}
	return all[0], true
}

// Logout forgets the user and the current view.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.user = nil
	s.workspace = model.Workspace{}
	s.workspaces = nil
	s.view = nil
}

// User returns the logged-in user and workspace.
func (s *Session) User() (model.User, model.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, model.Workspace{}, false
	}
	return *s.user, s.workspace, true
}

// Workspaces returns the workspaces seen at login.
func (s *Session) Workspaces() []model.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Workspace(nil), s.workspaces...)
}

// View returns the current view, or nil.
func (s *Session) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Load fetches, enriches and aggregates the entries of r. When another Load
// or Login starts before this one finishes, the result is dropped and
// ErrStale returned. A failed load clears the current view.
func (s *Session) Load(ctx context.Context, r Range) (*View, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	s.generation++
	gen := s.generation
	userID, wsID := s.user.ID, s.workspace.ID
	s.mu.Unlock()

	view, err := s.build(ctx, r, wsID, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale load", "generation", gen, "current", s.generation)
		return nil, ErrStale
	}
	if err != nil {
		s.view = nil
		return nil, err
	}
	view.Generation = gen
	s.view = view
	return view, nil
}

func (s *Session) build(ctx context.Context, r Range, wsID, userID string) (*View, error) {
	snap, err := s.fetcher.FetchSnapshot(ctx, wsID, userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	// The directory is complete before any entry is enriched.
	dir := enrich.NewDirectory(snap.Projects)
	entries, warnings := enrich.EnrichAll(dir, snap.Entries)
	for _, w := range warnings {
		s.logger.Warn("suspicious time entry", "entry", w.EntryID, "problem", w.Message)
	}

	v := &View{
		Range:    r,
		Entries:  entries,
		Stats:    stats.Compute(entries, s.profile, s.loc),
		Warnings: warnings,
		LoadedAt: time.Now(),
	}
	if r.Period != nil {
		v.Target = stats.CompareTarget(v.Stats.TotalHours, r.Period.ExpectedHours())
	}
	return v, nil
}

// Report loads r afresh and renders it as a PDF.
func (s *Session) Report(ctx context.Context, r Range) (*report.Document, error) {
	view, err := s.Load(ctx, r)
	if err != nil {
		return nil, err
	}
	user, _, _ := s.User()
	return s.renderer.Render(report.Request{
		Entries:     view.Entries,
		UserName:    user.Name,
		PeriodLabel: r.Label(),
		StartDate:   r.Start,
		EndDate:     r.End,
		Location:    s.loc,
	})
}

// Location is the zone used for day bucketing.
func (s *Session) Location() *time.Location { return s.loc }
