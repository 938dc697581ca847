package model

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SortTasksByPriority returns a stably sorted copy: priority rank first
// (unset last), then incomplete before completed, then newest first.
func SortTasksByPriority(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return taskLess(out[i], out[j])
	})
	return out
}

func taskLess(a, b Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	if a.Completed != b.Completed {
		return !a.Completed
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func FilterByTab(tasks []Task, tabID string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.TabID == tabID {
			out = append(out, task)
		}
	}
	return out
}

type Stats struct {
	Total      int
	Completed  int
	Percentage int
}

func ComputeStats(tasks []Task, tabID string) Stats {
	var st Stats
	for _, task := range tasks {
		if task.TabID != tabID {
			continue
		}
		st.Total++
		if task.Completed {
			st.Completed++
		}
	}
	st.Percentage = percentage(st.Completed, st.Total)
	return st
}

// CompletionPercentage is 100 for a tab without tasks.
func CompletionPercentage(tasks []Task, tabID string) int {
	return ComputeStats(tasks, tabID).Percentage
}

func percentage(completed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// NewID builds a creation-time identifier with a random suffix so that
// ids minted within the same millisecond stay distinct.
func NewID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
