package logic

import (
	"errors"

	"gorm.io/gorm"

	"taskchat-backend/dao"
	"taskchat-backend/models"
)

var ErrBadStatusFilter = errors.New("status must be one of all, pending, completed")

// TaskLogic handles task-related business logic for the REST surface. The
// assistant mutates tasks through the agent tool catalog instead.
type TaskLogic struct {
	taskDAO *dao.TaskDAO
}

func NewTaskLogic(taskDAO *dao.TaskDAO) *TaskLogic {
	return &TaskLogic{taskDAO: taskDAO}
}

func (l *TaskLogic) CreateTask(ownerID uint64, title, description string) (*models.Task, error) {
	return l.taskDAO.CreateTask(ownerID, title, description)
}

// ListTasks returns the owner's tasks filtered by status: "all" or "" for
// everything, "pending" or "completed" for one completion state.
func (l *TaskLogic) ListTasks(ownerID uint64, status string) ([]models.Task, error) {
	var completed *bool
	switch status {
	case "", "all":
	case "pending":
		f := false
		completed = &f
	case "completed":
		t := true
		completed = &t
	default:
		return nil, ErrBadStatusFilter
	}
	return l.taskDAO.ListTasks(ownerID, completed)
}

func (l *TaskLogic) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	task, err := l.taskDAO.GetTask(ownerID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return task, err
}

func (l *TaskLogic) UpdateTask(ownerID, taskID uint64, title, description *string) (*models.Task, error) {
	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return l.GetTask(ownerID, taskID)
	}
	task, err := l.taskDAO.UpdateTask(ownerID, taskID, updates)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return task, err
}

func (l *TaskLogic) CompleteTask(ownerID, taskID uint64) (*models.Task, error) {
	task, err := l.taskDAO.UpdateTask(ownerID, taskID, map[string]interface{}{"completed": true})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return task, err
}

func (l *TaskLogic) DeleteTask(ownerID, taskID uint64) error {
	err := l.taskDAO.DeleteTask(ownerID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
