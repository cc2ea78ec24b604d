package model

// TodoStats is the full statistics view over one owner's todos,
// computed in a single call.
type TodoStats struct {
	Overall    OverallStats    `json:"overall"`
	Priorities []PriorityStats `json:"priorities"`
	Categories []CategoryStats `json:"categories"`
}

// OverallStats summarizes all of an owner's todos. CompletionRate is an
// integer percentage, 0 when Total is 0.
type OverallStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

// PriorityStats summarizes one priority group. Only priorities with at
// least one todo appear. CompletionRate is rounded to one decimal.
type PriorityStats struct {
	Priority       Priority `json:"priority"`
	Count          int      `json:"count"`
	Completed      int      `json:"completed"`
	Incomplete     int      `json:"incomplete"`
	CompletionRate float64  `json:"completionRate"`
}

// CategoryStats summarizes one category group, ordered by count
// descending with stable ties. CompletionRate is rounded to one decimal.
type CategoryStats struct {
	Category       Category `json:"category"`
	Count          int      `json:"count"`
	Completed      int      `json:"completed"`
	Incomplete     int      `json:"incomplete"`
	CompletionRate float64  `json:"completionRate"`
}

// PriorityCount is one cell of the count-by-priority-and-completion
// breakdown.
type PriorityCount struct {
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
	Count     int      `json:"count"`
}
