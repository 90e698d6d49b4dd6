package service

import (
	"math"
	"time"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
)

// statusLabels is the fixed order of the report chart.
var statusLabels = []string{"Pending", "In Progress", "Completed", "Overdue"}

// ProjectTally counts the tasks of one project.
type ProjectTally struct {
	Project   models.Project
	Total     int
	Completed int
}

// Progress is completed/total as an unrounded percentage, 0 for a project without tasks.
func (p ProjectTally) Progress() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// RoundedProgress rounds Progress half to even, so 12.5 becomes 12 and 37.5 becomes 38.
func (p ProjectTally) RoundedProgress() int {
	return int(math.RoundToEven(p.Progress()))
}

// Stats is the aggregate of a scoped task and project set.
type Stats struct {
	Tasks          dto.TaskCounts
	TotalProjects  int
	ActiveProjects int
	Projects       []ProjectTally
}

// Aggregate counts tasks by status and overdue state, and tallies each project's tasks.
// Projects are tallied only from the tasks passed in. Empty inputs yield zero counts.
func Aggregate(tasks []models.Task, projects []models.Project, now time.Time) Stats {
	day := today(now)
	stats := Stats{
		TotalProjects: len(projects),
		Projects:      make([]ProjectTally, 0, len(projects)),
	}

	index := make(map[uint]int, len(projects))
	for i, project := range projects {
		index[project.ID] = i
		stats.Projects = append(stats.Projects, ProjectTally{Project: project})
		if project.IsActiveOn(day) {
			stats.ActiveProjects++
		}
	}

	for _, task := range tasks {
		stats.Tasks.Total++
		switch task.Status {
		case models.TaskStatusPending:
			stats.Tasks.Pending++
		case models.TaskStatusInProgress:
			stats.Tasks.InProgress++
		case models.TaskStatusCompleted:
			stats.Tasks.Completed++
		}
		if task.IsOverdue(day) {
			stats.Tasks.Overdue++
		}

		if task.ProjectID == nil {
			continue
		}
		if i, ok := index[*task.ProjectID]; ok {
			stats.Projects[i].Total++
			if task.Status == models.TaskStatusCompleted {
				stats.Projects[i].Completed++
			}
		}
	}

	return stats
}

// StatusDistribution returns the chart buckets in the fixed label order.
func (s Stats) StatusDistribution() dto.StatusDistribution {
	labels := make([]string, len(statusLabels))
	copy(labels, statusLabels)
	return dto.StatusDistribution{
		Labels: labels,
		Data:   []int{s.Tasks.Pending, s.Tasks.InProgress, s.Tasks.Completed, s.Tasks.Overdue},
	}
}

// ProjectsProgress lists the unrounded progress used by reports.
func (s Stats) ProjectsProgress() []dto.ProjectProgress {
	rows := make([]dto.ProjectProgress, 0, len(s.Projects))
	for _, tally := range s.Projects {
		rows = append(rows, dto.ProjectProgress{
			ID:             tally.Project.ID,
			Name:           tally.Project.Name,
			Progress:       tally.Progress(),
			TotalTasks:     tally.Total,
			CompletedTasks: tally.Completed,
		})
	}
	return rows
}

// ManagerProjects lists the rounded progress used by the manager dashboard.
func (s Stats) ManagerProjects() []dto.ManagerProjectResponse {
	rows := make([]dto.ManagerProjectResponse, 0, len(s.Projects))
	for _, tally := range s.Projects {
		rows = append(rows, dto.ManagerProjectResponse{
			ID:             tally.Project.ID,
			Name:           tally.Project.Name,
			Description:    tally.Project.Description,
			Deadline:       dto.DatePtr(tally.Project.Deadline),
			Progress:       tally.RoundedProgress(),
			TotalTasks:     tally.Total,
			CompletedTasks: tally.Completed,
		})
	}
	return rows
}
