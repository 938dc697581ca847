// Package board owns the in-memory task and tab collections, keeps them
// consistent with each other and writes every change through to storage.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tcheck/internal/analytics"
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/storage"
	"github.com/sandeepkv93/tcheck/internal/theme"
)

var (
	ErrTaskNotFound = errors.New("board: task not found")
	ErrTabNotFound  = errors.New("board: tab not found")
	ErrLastTab      = errors.New("board: cannot close the last tab")
	ErrUnknownTheme = errors.New("board: unknown theme")
)

const DefaultUpgradeDelay = 1500 * time.Millisecond

// Repository is the persistence the board writes through to.
type Repository interface {
	LoadTasks(ctx context.Context) ([]model.Task, bool, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
	LoadTabs(ctx context.Context) ([]model.Tab, bool, error)
	SaveTabs(ctx context.Context, tabs []model.Tab) error
	LoadTheme(ctx context.Context) (string, bool, error)
	SaveTheme(ctx context.Context, name string) error
	LoadPremium(ctx context.Context) (bool, bool, error)
	SavePremium(ctx context.Context, premium bool) error
	LoadLaunched(ctx context.Context) (bool, bool, error)
	SaveLaunched(ctx context.Context, launched bool) error
}

var _ Repository = (*storage.Repository)(nil)

type Options struct {
	Repo         Repository
	Tracker      analytics.Tracker
	Logger       *log.Logger
	Now          func() time.Time
	NewID        func(time.Time) string
	UpgradeDelay time.Duration
}

// PersistStatus separates changes applied in memory from changes that
// reached the store. Dirty lists the keys whose last write failed and
// LastErr is the most recent write failure.
type PersistStatus struct {
	Applied   uint64
	Persisted uint64
	Dirty     []string
	LastErr   error
}

func (s PersistStatus) Durable() bool {
	return len(s.Dirty) == 0 && s.Applied == s.Persisted
}

// Board is safe for concurrent use.
type Board struct {
	mu           sync.Mutex
	repo         Repository
	tracker      analytics.Tracker
	logger       *log.Logger
	now          func() time.Time
	newID        func(time.Time) string
	upgradeDelay time.Duration

	tasks     []model.Task
	tabs      []model.Tab
	activeTab string
	theme     string
	premium   bool
	launched  bool
	status    PersistStatus
	dirty     map[string]bool
}

func New(opts Options) (*Board, error) {
	if opts.Repo == nil {
		return nil, errors.New("board: nil repository")
	}
	b := &Board{
		repo:         opts.Repo,
		tracker:      opts.Tracker,
		logger:       opts.Logger,
		now:          opts.Now,
		newID:        opts.NewID,
		upgradeDelay: opts.UpgradeDelay,
		tabs:         model.DefaultTabs(),
		activeTab:    model.DefaultTabID,
		theme:        theme.DefaultKey,
		dirty:        make(map[string]bool),
	}
	if b.tracker == nil {
		b.tracker = analytics.Nop{}
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = model.NewID
	}
	if b.upgradeDelay < 0 {
		b.upgradeDelay = 0
	}
	return b, nil
}

// Load reads every persisted key once. A key that cannot be read is logged
// and treated as absent; the combined failures are returned so the caller
// can decide whether to surface them.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	record := func(what string, err error) {
		b.logger.Error("load failed, using default", "what", what, "err", err)
		errs = append(errs, fmt.Errorf("load %s: %w", what, err))
	}

	tasks, _, err := b.repo.LoadTasks(ctx)
	if err != nil {
		record("tasks", err)
		tasks = nil
	}
	tabs, found, err := b.repo.LoadTabs(ctx)
	tabsRead := err == nil
	if err != nil {
		record("tabs", err)
	}
	if err != nil || !found || len(tabs) == 0 {
		tabs = model.DefaultTabs()
	}
	themeKey, found, err := b.repo.LoadTheme(ctx)
	if err != nil {
		record("theme", err)
	}
	if _, ok := theme.Lookup(themeKey); err != nil || !found || !ok {
		themeKey = theme.DefaultKey
	}
	premium, _, err := b.repo.LoadPremium(ctx)
	if err != nil {
		record("premium", err)
		premium = false
	}
	launched, _, err := b.repo.LoadLaunched(ctx)
	if err != nil {
		record("launched", err)
		launched = false
	}

	b.tasks = tasks
	b.tabs = tabs
	b.theme = themeKey
	b.premium = premium
	b.launched = launched
	b.activeTab = tabs[0].ID

	// Default tabs stand in for unreadable ones; repairing against them
	// would rewrite every task's owner.
	if tabsRead && b.repairOrphans() {
		b.logger.Info("reassigned tasks that referenced missing tabs")
		b.applied()
		b.saveTasks(ctx)
	}
	return errors.Join(errs...)
}

// repairOrphans points every task at an existing tab: first a tab whose
// title matches the stale reference (collections written with category
// names), otherwise the first tab.
func (b *Board) repairOrphans() bool {
	ids := make(map[string]bool, len(b.tabs))
	byTitle := make(map[string]string, len(b.tabs))
	for _, tab := range b.tabs {
		ids[tab.ID] = true
		if _, seen := byTitle[tab.Title]; !seen {
			byTitle[tab.Title] = tab.ID
		}
	}
	changed := false
	for i := range b.tasks {
		if ids[b.tasks[i].TabID] {
			continue
		}
		if id, ok := byTitle[b.tasks[i].TabID]; ok {
			b.tasks[i].TabID = id
		} else {
			b.tasks[i].TabID = b.tabs[0].ID
		}
		changed = true
	}
	return changed
}

func (b *Board) applied() {
	b.status.Applied++
}

// markPersisted records the outcome of writing one key. Every key holds a
// whole value, so a later successful write of the same key clears an
// earlier failure; the board only counts as persisted once no key is dirty.
func (b *Board) markPersisted(key string, err error) {
	if err != nil {
		b.dirty[key] = true
		b.status.LastErr = err
		b.logger.Error("save failed", "key", key, "err", err)
		return
	}
	delete(b.dirty, key)
	if len(b.dirty) == 0 {
		b.status.Persisted = b.status.Applied
	}
}

func (b *Board) saveTasks(ctx context.Context) {
	b.markPersisted(storage.KeyTasks, b.repo.SaveTasks(ctx, b.snapshotTasks()))
}

func (b *Board) saveTabs(ctx context.Context) {
	b.markPersisted(storage.KeyTabs, b.repo.SaveTabs(ctx, b.snapshotTabs()))
}

func (b *Board) snapshotTasks() []model.Task {
	out := make([]model.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

func (b *Board) snapshotTabs() []model.Tab {
	out := make([]model.Tab, len(b.tabs))
	copy(out, b.tabs)
	return out
}

func (b *Board) PersistStatus() PersistStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := b.status
	status.Dirty = nil
	for key := range b.dirty {
		status.Dirty = append(status.Dirty, key)
	}
	sort.Strings(status.Dirty)
	return status
}

func (b *Board) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotTasks()
}

func (b *Board) Tabs() []model.Tab {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotTabs()
}

func (b *Board) Task(id string) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	return b.tasks[i], nil
}

func (b *Board) Tab(id string) (model.Tab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.tabIndex(id)
	if i < 0 {
		return model.Tab{}, ErrTabNotFound
	}
	return b.tabs[i], nil
}

// TasksForTab returns the tab's tasks in board order.
func (b *Board) TasksForTab(tabID string) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.FilterByTab(b.tasks, tabID)
}

func (b *Board) CompletionPercentage(tabID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.CompletionPercentage(b.tasks, tabID)
}

func (b *Board) Stats(tabID string) model.Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.ComputeStats(b.tasks, tabID)
}

func (b *Board) ActiveTab() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeTab
}

func (b *Board) Theme() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.theme
}

func (b *Board) Premium() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.premium
}

func (b *Board) Launched() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.launched
}

func (b *Board) taskIndex(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) tabIndex(id string) int {
	for i := range b.tabs {
		if b.tabs[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) resort() {
	b.tasks = model.SortTasksByPriority(b.tasks)
}

