package domain

// UserInfo identifies the employee asking for suggestions.
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// RecentTask is a task the user completed recently.
type RecentTask struct {
	TaskCode string `json:"task_code"`
	Count    int    `json:"count"`
}

// Goals holds department level targets.
type Goals struct {
	DeptKWhReductionPct *float64 `json:"dept_kwh_reduction_pct,omitempty"`
}

// UserSummary is the profile used to tailor recommendations.
type UserSummary struct {
	User        UserInfo       `json:"user"`
	Department  string         `json:"department,omitempty"`
	Skills      []string       `json:"skills,omitempty"`
	RecentTasks []RecentTask   `json:"recent_tasks,omitempty"`
	Goals       *Goals         `json:"goals,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ReductionGoal returns the department reduction goal, if one was provided.
func (s UserSummary) ReductionGoal() (float64, bool) {
	if s.Goals == nil || s.Goals.DeptKWhReductionPct == nil {
		return 0, false
	}
	return *s.Goals.DeptKWhReductionPct, true
}
