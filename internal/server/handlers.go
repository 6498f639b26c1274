package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/samber/lo"

	"github.com/Tiliavir/hourglass/internal/billing"
	"github.com/Tiliavir/hourglass/internal/dashboard"
	"github.com/Tiliavir/hourglass/internal/enrich"
	"github.com/Tiliavir/hourglass/internal/stats"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	_, _, loggedIn := h.session.User()
	render.JSON(w, r, map[string]any{"status": "ok", "loggedIn": loggedIn})
}

type periodResponse struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Start         string  `json:"startDate"`
	End           string  `json:"endDate"`
	BillableDays  int     `json:"billableDays"`
	ExpectedHours float64 `json:"expectedHours"`
}

func (h *handler) periods(w http.ResponseWriter, r *http.Request) {
	out := lo.Map(billing.Periods(), func(p billing.Period, _ int) periodResponse {
		return periodResponse{
			ID:            p.ID,
			Label:         p.Label(),
			Start:         p.StartDate(),
			End:           p.EndDate(),
			BillableDays:  p.BillableDays,
			ExpectedHours: p.ExpectedHours(),
		}
	})
	render.JSON(w, r, out)
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Workspace string `json:"workspace"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	user, ws, err := h.session.Login(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Workspace: ws.Name})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	user, ws, ok := h.session.User()
	if !ok {
		h.fail(w, r, dashboard.ErrNotLoggedIn)
		return
	}
	render.JSON(w, r, userResponse{ID: user.ID, Name: user.Name, Email: user.Email, Workspace: ws.Name})
}

func (h *handler) rangeFrom(r *http.Request) (dashboard.Range, error) {
	q := r.URL.Query()
	return dashboard.ResolveRange(q.Get("start"), q.Get("end"), q.Get("period"), h.now())
}

type projectRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Hours    string `json:"hours"`
	Percent  string `json:"percent"`
	Duration string `json:"duration"`
}

type dayRow struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Hours    string `json:"hours"`
	Entries  int    `json:"entries"`
	Sentinel bool   `json:"sentinel,omitempty"`
}

type statsResponse struct {
	Range    dashboard.Range `json:"range"`
	Stats    stats.Display   `json:"stats"`
	Target   stats.Target    `json:"target"`
	Summary  string          `json:"targetSummary,omitempty"`
	Projects []projectRow    `json:"projects"`
	Days     []dayRow        `json:"days"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.session.Load(r.Context(), rng)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	groups := stats.SortByHours(stats.GroupByProject(view.Entries))
	resp := statsResponse{
		Range:   view.Range,
		Stats:   view.Stats.Display(),
		Target:  view.Target,
		Summary: view.Target.String(),
		Projects: lo.Map(groups, func(g stats.ProjectGroup, _ int) projectRow {
			return projectRow{
				ID:       g.Key,
				Name:     g.ProjectName,
				Color:    g.Color,
				Hours:    stats.FormatHours(g.Hours()),
				Percent:  stats.FormatHours(g.Share(view.Stats.TotalMs)),
				Duration: timecalc.FormatDuration(g.TotalMs),
			}
		}),
		Days: lo.Map(stats.GroupByDay(view.Entries, h.session.Location()), func(d stats.DayGroup, _ int) dayRow {
			return dayRow{Key: d.Key, Label: d.Label(), Hours: stats.FormatHours(d.Hours()), Entries: len(d.Entries), Sentinel: d.Sentinel}
		}),
		Warnings: lo.Map(view.Warnings, func(wn enrich.Warning, _ int) string { return wn.String() }),
	}
	render.JSON(w, r, resp)
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	doc, err := h.session.Report(r.Context(), rng)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.FileName))
	w.Header().Set("X-Report-Id", doc.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Bytes)
}
