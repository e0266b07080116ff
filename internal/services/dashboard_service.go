package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"earnings/internal/amqp"
	"earnings/internal/cache"
	"earnings/internal/charts"
	"earnings/internal/core"
	"earnings/internal/currency"
	"earnings/internal/log"
	"earnings/internal/metrics"
	"earnings/internal/store"
	"earnings/internal/window"
)

// RecentCount is the size of the recent projects table.
const RecentCount = 5

// Publisher receives a summary after every change. amqp.Client and
// amqp.AsyncPublisher implement it.
type Publisher interface {
	PublishDashboardUpdated(ctx context.Context, msg *amqp.DashboardUpdatedMessage) error
}

// Snapshot is everything the dashboard shows for one window at one instant.
// Amounts are USD; Currency and Rate say how to present them.
type Snapshot struct {
	Window       window.Window
	Currency     core.Currency
	Rate         float64
	Now          time.Time
	StoreVersion uint64
	Filtered     []core.Project
	Recent       []core.Project
	Summary      metrics.Summary
	Charts       charts.Set
}

type Options struct {
	Roster    []core.TeamMember
	Settings  core.DisplaySettings
	Policy    core.DefaultPolicy
	Location  *time.Location
	Now       func() time.Time
	Cache     cache.Cache[Snapshot]
	Publisher Publisher
	Logger    *log.Logger
}

// DashboardService owns the application state: the project store, the
// roster, and the display settings. It is safe for concurrent use.
type DashboardService struct {
	repo      store.ProjectRepository
	roster    []core.TeamMember
	policy    core.DefaultPolicy
	loc       *time.Location
	now       func() time.Time
	cache     cache.Cache[Snapshot]
	publisher Publisher
	logger    *log.Logger
	events    *log.StructuredLogger

	mu       sync.RWMutex
	settings core.DisplaySettings
}

func NewDashboardService(repo store.ProjectRepository, opts Options) *DashboardService {
	if opts.Settings.Currency == "" {
		opts.Settings = core.DefaultDisplaySettings()
	}
	opts.Settings.Rate = currency.NewConverter(opts.Settings.Rate).Rate
	if opts.Policy == (core.DefaultPolicy{}) {
		opts.Policy = core.DefaultCreatePolicy
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	logger := opts.Logger.WithComponent(log.ComponentDashboard)

	return &DashboardService{
		repo:      repo,
		roster:    append([]core.TeamMember(nil), opts.Roster...),
		policy:    opts.Policy,
		loc:       opts.Location,
		now:       opts.Now,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
		settings:  opts.Settings,
	}
}

// Now is the reference instant in the configured location.
func (s *DashboardService) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *DashboardService) Location() *time.Location {
	return s.loc
}

func (s *DashboardService) Settings() core.DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *DashboardService) Converter() currency.Converter {
	return currency.NewConverter(s.Settings().Rate)
}

// SetCurrency switches the display currency for every subsequent view.
func (s *DashboardService) SetCurrency(ctx context.Context, cur core.Currency) error {
	if !cur.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidCurrency, cur)
	}
	s.mu.Lock()
	changed := s.settings.Currency != cur
	s.settings.Currency = cur
	s.mu.Unlock()

	if changed {
		s.logger.InfoContext(ctx, "Display currency changed", log.FieldCurrency, cur)
		s.notify(ctx, amqp.ReasonCurrencyChanged, "")
	}
	return nil
}

// Team is the roster in its configured order.
func (s *DashboardService) Team() []core.TeamMember {
	return append([]core.TeamMember(nil), s.roster...)
}

// TeamRollup reports project count and revenue for every member over all
// projects, regardless of window.
func (s *DashboardService) TeamRollup() []metrics.MemberTotal {
	return metrics.TeamRollup(s.repo.List(), s.roster)
}

func (s *DashboardService) AssigneeName(id string) string {
	return core.AssigneeName(s.roster, id)
}

func (s *DashboardService) Project(id string) (core.Project, bool) {
	return s.repo.Get(id)
}

// Projects lists the projects inside w, newest first.
func (s *DashboardService) Projects(w window.Window) []core.Project {
	return window.Filter(s.repo.List(), w, s.Now())
}

// CreateProject validates in, converts its amount to USD and stores it.
// Status and assignee default through the configured policy.
func (s *DashboardService) CreateProject(ctx context.Context, in core.ProjectInput) (core.Project, error) {
	if err := in.Validate(); err != nil {
		return core.Project{}, err
	}

	p := core.Project{
		Name:       in.Name,
		Client:     in.Client,
		Date:       in.Date,
		AmountUSD:  s.toUSD(in),
		Notes:      in.Notes,
		Status:     in.Status,
		AssignedTo: in.AssignedTo,
	}
	p = s.repo.Add(s.policy.Apply(p, s.roster))

	s.events.LogProjectMutation(ctx, log.OpCreate, p.ID, p.Name, p.Client, p.AmountUSD, string(p.Status))
	s.notify(ctx, amqp.ReasonProjectCreated, p.ID)
	return p, nil
}

// UpdateProject replaces the editable fields of project id with in. Empty
// status and assignee leave the stored values alone. An unknown id is not
// an error: it returns false and changes nothing.
func (s *DashboardService) UpdateProject(ctx context.Context, id string, in core.ProjectInput) (core.Project, bool, error) {
	if err := in.Validate(); err != nil {
		return core.Project{}, false, err
	}

	amount := s.toUSD(in)
	patch := core.ProjectPatch{
		Name:      &in.Name,
		Client:    &in.Client,
		Date:      &in.Date,
		AmountUSD: &amount,
		Notes:     &in.Notes,
	}
	if in.Status != "" {
		patch.Status = &in.Status
	}
	if in.AssignedTo != "" {
		patch.AssignedTo = &in.AssignedTo
	}

	p, ok := s.repo.Update(id, patch)
	if !ok {
		s.logger.DebugContext(ctx, "Update of unknown project ignored", log.FieldProjectID, id)
		return core.Project{}, false, nil
	}

	s.events.LogProjectMutation(ctx, log.OpUpdate, p.ID, p.Name, p.Client, p.AmountUSD, string(p.Status))
	s.notify(ctx, amqp.ReasonProjectUpdated, p.ID)
	return p, true, nil
}

// DeleteProject removes project id. Deleting an unknown id returns false.
func (s *DashboardService) DeleteProject(ctx context.Context, id string) bool {
	p, found := s.repo.Get(id)
	if !found || !s.repo.Remove(id) {
		s.logger.DebugContext(ctx, "Delete of unknown project ignored", log.FieldProjectID, id)
		return false
	}

	s.events.LogProjectMutation(ctx, log.OpDelete, p.ID, p.Name, p.Client, p.AmountUSD, string(p.Status))
	s.notify(ctx, amqp.ReasonProjectDeleted, id)
	return true
}

// Snapshot computes the dashboard for w. Results are memoized per store
// version, window, currency and calendar day.
func (s *DashboardService) Snapshot(ctx context.Context, w window.Window) Snapshot {
	now := s.Now()
	settings := s.Settings()
	version := s.repo.Version()
	key := snapshotKey(version, w, settings.Currency, now)

	if s.cache != nil {
		if snap, ok := s.cache.Get(key); ok {
			s.events.LogDashboardComputed(ctx, string(w), string(settings.Currency), version, len(snap.Filtered), true)
			snap = snap.clone()
			snap.Now = now
			return snap
		}
	}

	all := s.repo.List()
	filtered := window.Filter(all, w, now)
	summary := metrics.Compute(filtered, all, s.roster, now)

	snap := Snapshot{
		Window:       w,
		Currency:     settings.Currency,
		Rate:         settings.Rate,
		Now:          now,
		StoreVersion: version,
		Filtered:     filtered,
		Recent:       all[:min(RecentCount, len(all))],
		Summary:      summary,
		Charts:       charts.Build(filtered, summary),
	}

	if s.cache != nil {
		s.cache.Set(key, snap)
		snap = snap.clone()
	}
	s.events.LogDashboardComputed(ctx, string(w), string(settings.Currency), version, len(filtered), false)
	return snap
}

// clone copies every slice and map of snap so callers never share memory
// with a cached value.
func (snap Snapshot) clone() Snapshot {
	snap.Filtered = slices.Clone(snap.Filtered)
	snap.Recent = slices.Clone(snap.Recent)
	snap.Summary.Team = slices.Clone(snap.Summary.Team)
	snap.Summary.Clients = slices.Clone(snap.Summary.Clients)

	series := make(map[charts.ID]charts.Series, len(snap.Charts.Series))
	for id, sr := range snap.Charts.Series {
		sr.Points = slices.Clone(sr.Points)
		sr.Colors = slices.Clone(sr.Colors)
		series[id] = sr
	}
	snap.Charts.Series = series
	snap.Charts.Legend = slices.Clone(snap.Charts.Legend)
	return snap
}

func (s *DashboardService) toUSD(in core.ProjectInput) float64 {
	cur := in.Currency
	if cur == "" {
		cur = s.Settings().Currency
	}
	return s.Converter().ToUSD(in.Amount, cur)
}

// notify publishes the all-time summary. Failures are logged and never
// reach the caller.
func (s *DashboardService) notify(ctx context.Context, reason, projectID string) {
	if s.publisher == nil {
		return
	}

	snap := s.Snapshot(ctx, window.All)
	msg := amqp.NewDashboardUpdatedMessage(reason, projectID)
	msg.StoreVersion = snap.StoreVersion
	msg.Currency = string(snap.Currency)
	msg.ProjectCount = snap.Summary.Totals.Count
	msg.TotalUSD = snap.Summary.Totals.TotalUSD
	msg.AverageUSD = snap.Summary.Totals.AverageUSD
	msg.GrowthPercent = snap.Summary.Growth.Percent
	msg.BestMonth = snap.Summary.Best.Label
	msg.BestMonthUSD = snap.Summary.Best.AmountUSD

	if err := s.publisher.PublishDashboardUpdated(ctx, msg); err != nil {
		s.events.LogError(ctx, "Failed to publish dashboard update", err, log.OpPublish,
			log.NewFields().WithErrorType(log.ErrorTypeNetwork))
	}
}

func snapshotKey(version uint64, w window.Window, cur core.Currency, now time.Time) string {
	return strconv.FormatUint(version, 10) + "|" + string(w) + "|" + string(cur) + "|" + now.Format(time.DateOnly)
}
