package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sandeepkv93/tcheck/internal/model"
)

const flagTrue = "true"

// Repository gives typed access to the persisted keys. Collections are
// JSON documents; the theme is a raw string and flags are "true" or absent.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Close() error {
	return r.store.Close()
}

func (r *Repository) LoadTasks(ctx context.Context) ([]model.Task, bool, error) {
	return loadJSON[[]model.Task](ctx, r.store, KeyTasks)
}

func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return saveJSON(ctx, r.store, KeyTasks, tasks)
}

func (r *Repository) LoadTabs(ctx context.Context) ([]model.Tab, bool, error) {
	return loadJSON[[]model.Tab](ctx, r.store, KeyTabs)
}

func (r *Repository) SaveTabs(ctx context.Context, tabs []model.Tab) error {
	if tabs == nil {
		tabs = []model.Tab{}
	}
	return saveJSON(ctx, r.store, KeyTabs, tabs)
}

func (r *Repository) LoadTheme(ctx context.Context) (string, bool, error) {
	v, err := r.store.Get(ctx, KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Repository) SaveTheme(ctx context.Context, name string) error {
	return r.store.Set(ctx, KeyTheme, name)
}

func (r *Repository) LoadPremium(ctx context.Context) (bool, bool, error) {
	return r.loadFlag(ctx, KeyPremium)
}

func (r *Repository) SavePremium(ctx context.Context, premium bool) error {
	return r.saveFlag(ctx, KeyPremium, premium)
}

func (r *Repository) LoadLaunched(ctx context.Context) (bool, bool, error) {
	return r.loadFlag(ctx, KeyLaunched)
}

func (r *Repository) SaveLaunched(ctx context.Context, launched bool) error {
	return r.saveFlag(ctx, KeyLaunched, launched)
}

func (r *Repository) loadFlag(ctx context.Context, key string) (bool, bool, error) {
	v, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return v == flagTrue, true, nil
}

func (r *Repository) saveFlag(ctx context.Context, key string, on bool) error {
	if on {
		return r.store.Set(ctx, key, flagTrue)
	}
	return r.store.Delete(ctx, key)
}

func loadJSON[T any](ctx context.Context, store Store, key string) (T, bool, error) {
	var out T
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		var zero T
		return zero, false, opErr("decode", key, err)
	}
	return out, true, nil
}

func saveJSON(ctx context.Context, store Store, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return opErr("encode", key, err)
	}
	return store.Set(ctx, key, string(payload))
}
