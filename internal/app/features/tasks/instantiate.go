// internal/app/features/tasks/instantiate.go
package tasks

import (
	taskstore "github.com/dalemusser/planhub/internal/app/store/tasks"
	"github.com/dalemusser/planhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildTasksFromTemplates copies each template into a task for the
// project. The target date is the project's creation date shifted by the
// template's day offset; a negative offset dates the task before the
// project anchor (pre-launch work). Later template edits never touch the
// tasks built here, only the back-reference ties them together.
func buildTasksFromTemplates(project *models.Project, tpls []models.TaskTemplate) []models.Task {
	tasks := make([]models.Task, 0, len(tpls))
	for _, tpl := range tpls {
		target := project.CreatedAt.AddDate(0, 0, tpl.TargetDaysOffset)
		tplID := tpl.ID

		status := tpl.Status
		if status == "" {
			status = taskstore.StatusDraft
		}

		assignees := make([]primitive.ObjectID, len(tpl.AssigneeIDs))
		copy(assignees, tpl.AssigneeIDs)

		tasks = append(tasks, models.Task{
			ProjectID:             project.ID,
			Title:                 tpl.Title,
			Details:               tpl.Details,
			AssigneeIDs:           assignees,
			TargetDate:            &target,
			Status:                status,
			CreatedFromTemplateID: &tplID,
		})
	}
	return tasks
}
