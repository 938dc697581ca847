package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("storage: not found")

const (
	KeyTasks    = "@terminal_todo_app"
	KeyTabs     = "@terminal_todo_tabs"
	KeyTheme    = "@terminal_todo_theme"
	KeyPremium  = "@terminal_todo_premium"
	KeyLaunched = "@terminal_todo_has_launched"
)

// Keys lists every key the application persists.
func Keys() []string {
	return []string{KeyTasks, KeyTabs, KeyTheme, KeyPremium, KeyLaunched}
}

// Store is a durable string-to-string mapping. Get reports a missing key
// with ErrNotFound; every other failure is an *OpError.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Key: key, Err: err}
}
