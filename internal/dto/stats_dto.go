package dto

// TaskCounts are the per-status task counters shared by every dashboard.
type TaskCounts struct {
	Total      int `json:"total_tasks"`
	Pending    int `json:"pending_tasks"`
	InProgress int `json:"in_progress_tasks"`
	Completed  int `json:"completed_tasks"`
	Overdue    int `json:"overdue_tasks"`
}

// SupermanagerStats is the supermanager dashboard.
type SupermanagerStats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveProjects int64 `json:"active_projects"`
	Pending        int   `json:"pending_tasks"`
	InProgress     int   `json:"in_progress_tasks"`
	Completed      int   `json:"completed_tasks"`
	Overdue        int   `json:"overdue_tasks"`
}

// ManagerStats is the manager dashboard.
type ManagerStats struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	Pending        int `json:"pending_tasks"`
	InProgress     int `json:"in_progress_tasks"`
	Completed      int `json:"completed_tasks"`
	Overdue        int `json:"overdue_tasks"`
}

// EmployeeStats is the employee dashboard.
type EmployeeStats struct {
	TaskCounts
}

// StatusDistribution feeds the report chart; Labels and Data are index aligned.
type StatusDistribution struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ProjectProgress is one row of the report progress table. Progress is not rounded.
type ProjectProgress struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Progress       float64 `json:"progress"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
}

// ProjectOption is a project entry for the report filter.
type ProjectOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ReportResponse is the reporting payload.
type ReportResponse struct {
	Stats              TaskCounts         `json:"stats"`
	StatusDistribution StatusDistribution `json:"statusDistribution"`
	ProjectsProgress   []ProjectProgress  `json:"projectsProgress"`
	AllProjects        []ProjectOption    `json:"allProjects"`
}
