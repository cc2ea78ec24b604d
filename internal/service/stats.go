package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// Stats computes grouped and overall statistics over one owner's todos.
// Read-only. The aggregation is an explicit two-pass (group, then derive
// rates) over a single store read, so it carries no query-engine
// aggregation semantics.
type Stats struct {
	todoStore model.TodoStore
	logger    *logger.Logger
	now       func() time.Time
}

// NewStats creates a new Stats service.
func NewStats(todoStore model.TodoStore, logger *logger.Logger) *Stats {
	return &Stats{
		todoStore: todoStore,
		logger:    logger,
		now:       time.Now,
	}
}

// Summary returns the overall, per-priority and per-category views in
// one call. The overall completion rate is an integer percentage;
// per-group rates are rounded to one decimal. The asymmetry mirrors the
// shape consumers already depend on.
func (s *Stats) Summary(ctx context.Context, ownerID uuid.UUID) (model.TodoStats, error) {
	todos, err := s.todoStore.List(ctx, ownerID, model.ListQuery{Sort: model.SortOldest})
	if err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to list todos: %w", err)
	}

	now := s.now()

	stats := model.TodoStats{
		Overall:    overall(todos, now),
		Priorities: byPriority(todos),
		Categories: byCategory(todos),
	}

	return stats, nil
}

// Counts returns the number of todos per (priority, completed) pair,
// sorted by priority then completion state. Pairs with no todos are
// omitted.
func (s *Stats) Counts(ctx context.Context, ownerID uuid.UUID) ([]model.PriorityCount, error) {
	todos, err := s.todoStore.List(ctx, ownerID, model.ListQuery{Sort: model.SortOldest})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	type key struct {
		priority  model.Priority
		completed bool
	}
	counts := make(map[key]int)
	for _, t := range todos {
		counts[key{t.Priority, t.Completed}]++
	}

	out := make([]model.PriorityCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.PriorityCount{Priority: k.priority, Completed: k.completed, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return !out[i].Completed && out[j].Completed
	})

	return out, nil
}

func overall(todos []model.Todo, now time.Time) model.OverallStats {
	o := model.OverallStats{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			o.Completed++
		}
		if t.IsOverdue(now) {
			o.Overdue++
		}
	}
	if o.Total > 0 {
		o.CompletionRate = int(math.Round(float64(o.Completed) / float64(o.Total) * 100))
	}
	return o
}

func byPriority(todos []model.Todo) []model.PriorityStats {
	groups := make(map[model.Priority]*model.PriorityStats)
	for _, t := range todos {
		g, ok := groups[t.Priority]
		if !ok {
			g = &model.PriorityStats{Priority: t.Priority}
			groups[t.Priority] = g
		}
		g.Count++
		if t.Completed {
			g.Completed++
		}
	}

	out := make([]model.PriorityStats, 0, len(groups))
	for _, g := range groups {
		g.Incomplete = g.Count - g.Completed
		g.CompletionRate = rate1(g.Completed, g.Count)
		out = append(out, *g)
	}
	// Sorted by priority key, matching the order consumers expect.
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })

	return out
}

func byCategory(todos []model.Todo) []model.CategoryStats {
	groups := make(map[model.Category]*model.CategoryStats)
	var order []model.Category
	for _, t := range todos {
		g, ok := groups[t.Category]
		if !ok {
			g = &model.CategoryStats{Category: t.Category}
			groups[t.Category] = g
			order = append(order, t.Category)
		}
		g.Count++
		if t.Completed {
			g.Completed++
		}
	}

	out := make([]model.CategoryStats, 0, len(order))
	for _, c := range order {
		g := groups[c]
		g.Incomplete = g.Count - g.Completed
		g.CompletionRate = rate1(g.Completed, g.Count)
		out = append(out, *g)
	}
	// Count descending; insertion order breaks ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	return out
}

// rate1 is a completion percentage rounded to one decimal place, 0 for
// an empty group.
func rate1(completed, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(count)*1000) / 10
}
