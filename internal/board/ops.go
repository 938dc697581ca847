package board

import (
	"context"
	"strings"
	"time"

	"github.com/sandeepkv93/tcheck/internal/analytics"
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/storage"
	"github.com/sandeepkv93/tcheck/internal/theme"
)

// AddTask appends a task to tabID, or to the active tab when tabID is empty.
func (b *Board) AddTask(ctx context.Context, text, tabID string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, model.ErrEmptyText
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if tabID == "" {
		tabID = b.activeTab
	}
	if b.tabIndex(tabID) < 0 {
		return model.Task{}, ErrTabNotFound
	}

	now := b.now()
	task := model.Task{
		ID:        b.newID(now),
		Text:      text,
		CreatedAt: now,
		TabID:     tabID,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	b.tasks = append(b.tasks, task)
	b.resort()
	b.applied()
	b.saveTasks(ctx)
	b.tracker.Track(analytics.TaskCreated(tabID))
	return task, nil
}

func (b *Board) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	b.tasks[i].Completed = !b.tasks[i].Completed
	task := b.tasks[i]
	b.resort()
	b.applied()
	b.saveTasks(ctx)
	b.tracker.Track(analytics.TaskToggled(id, task.Completed))
	return task, nil
}

// UpdateTask replaces the text in place. Order is left alone so an edited
// row does not jump under the cursor.
func (b *Board) UpdateTask(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ErrEmptyText
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	b.tasks[i].Text = text
	b.applied()
	b.saveTasks(ctx)
	b.tracker.Track(analytics.TaskUpdated(id, b.tasks[i].TabID))
	return nil
}

func (b *Board) DeleteTask(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	tabID := b.tasks[i].TabID
	b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
	b.applied()
	b.saveTasks(ctx)
	b.tracker.Track(analytics.TaskDeleted(id, tabID))
	return nil
}

// SetPriority sets or, with model.PriorityUnset, clears a task's priority.
func (b *Board) SetPriority(ctx context.Context, id string, p model.Priority) error {
	if p != model.PriorityUnset && !p.IsValid() {
		return model.ErrInvalidPriority
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	b.tasks[i].Priority = p
	b.resort()
	b.applied()
	b.saveTasks(ctx)
	b.tracker.Track(analytics.PriorityChanged(id, string(p)))
	return nil
}

// AddTab creates a tab and makes it active. A blank title gets the
// placeholder name.
func (b *Board) AddTab(ctx context.Context, title string) (model.Tab, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.NewTabTitle
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	tab := model.Tab{ID: b.newID(b.now()), Title: title}
	b.tabs = append(b.tabs, tab)
	b.activeTab = tab.ID
	b.applied()
	b.saveTabs(ctx)
	b.tracker.Track(analytics.TabCreated(tab.ID))
	return tab, nil
}

// CloseTab moves the tab's tasks to the first remaining tab, then removes
// the tab. The sole tab cannot be closed.
func (b *Board) CloseTab(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.tabIndex(id)
	if i < 0 {
		return ErrTabNotFound
	}
	if len(b.tabs) == 1 {
		return ErrLastTab
	}

	remaining := append(b.tabs[:i:i], b.tabs[i+1:]...)
	target := remaining[0].ID
	moved := 0
	for j := range b.tasks {
		if b.tasks[j].TabID == id {
			b.tasks[j].TabID = target
			moved++
		}
	}
	b.tabs = remaining
	if b.activeTab == id {
		b.activeTab = target
	}

	b.applied()
	b.saveTasks(ctx)
	b.saveTabs(ctx)
	b.logger.Debug("tab closed", "tab", id, "moved", moved, "to", target)
	b.tracker.Track(analytics.TabDeleted(id))
	return nil
}

func (b *Board) RenameTab(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.ErrEmptyTitle
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.tabIndex(id)
	if i < 0 {
		return ErrTabNotFound
	}
	b.tabs[i].Title = title
	b.applied()
	b.saveTabs(ctx)
	return nil
}

// SelectTab changes the active tab. Selection is not persisted.
func (b *Board) SelectTab(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tabIndex(id) < 0 {
		return ErrTabNotFound
	}
	b.activeTab = id
	b.tracker.Track(analytics.TabViewed(id))
	return nil
}

func (b *Board) SetTheme(ctx context.Context, key string) error {
	if _, ok := theme.Lookup(key); !ok {
		return ErrUnknownTheme
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.theme = key
	b.applied()
	b.markPersisted(storage.KeyTheme, b.repo.SaveTheme(ctx, key))
	b.tracker.Track(analytics.ThemeChanged(key))
	return nil
}

// Upgrade simulates a purchase: it waits out the configured delay, then
// unlocks premium. The board stays usable while it waits.
func (b *Board) Upgrade(ctx context.Context) error {
	if b.Premium() {
		return nil
	}

	if b.upgradeDelay > 0 {
		timer := time.NewTimer(b.upgradeDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.premium {
		return nil
	}
	b.premium = true
	b.applied()
	b.markPersisted(storage.KeyPremium, b.repo.SavePremium(ctx, true))
	b.tracker.Track(analytics.PremiumUpgraded())
	b.logger.Info("premium unlocked")
	return nil
}

// CompleteOnboarding records that the first-launch sequence was shown.
func (b *Board) CompleteOnboarding(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launched {
		return nil
	}
	b.launched = true
	b.applied()
	b.markPersisted(storage.KeyLaunched, b.repo.SaveLaunched(ctx, true))
	return nil
}
