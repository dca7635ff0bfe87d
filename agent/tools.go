package agent

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskchat-backend/models"
)

// TaskStore is the slice of the task repository the tools need. Satisfied by
// dao.TaskDAO.
type TaskStore interface {
	CreateTask(ownerID uint64, title, description string) (*models.Task, error)
	GetTask(ownerID, taskID uint64) (*models.Task, error)
	ListTasks(ownerID uint64, completed *bool) ([]models.Task, error)
	UpdateTask(ownerID, taskID uint64, updates map[string]interface{}) (*models.Task, error)
	DeleteTask(ownerID, taskID uint64) error
}

// NewTaskRegistry builds the fixed tool catalog over the given task store.
func NewTaskRegistry(store TaskStore) *Registry {
	return newRegistry(
		createTaskTool(store),
		listTasksTool(store),
		completeTaskTool(store),
		deleteTaskTool(store),
		updateTaskTool(store),
	)
}

func createTaskTool(store TaskStore) *Tool {
	return &Tool{
		Name:        "create_task",
		Description: "Create a new task on the user's task list.",
		Schema: &Schema{
			Properties: map[string]Property{
				"title":       {Type: "string", Description: "Short task title"},
				"description": {Type: "string", Description: "Optional longer description"},
			},
			Required: []string{"title"},
		},
		Run: func(ctx context.Context, ownerID uint64, args map[string]interface{}) (map[string]interface{}, error) {
			title, _ := args["title"].(string)
			description, _ := args["description"].(string)
			task, err := store.CreateTask(ownerID, title, description)
			if err != nil {
				return nil, err
			}
			return taskResult(task), nil
		},
	}
}

func listTasksTool(store TaskStore) *Tool {
	return &Tool{
		Name:        "list_tasks",
		Description: "List the user's tasks, optionally filtered by status.",
		Schema: &Schema{
			Properties: map[string]Property{
				"status": {Type: "string", Description: "Which tasks to return", Enum: []string{"all", "pending", "completed"}},
			},
		},
		Run: func(ctx context.Context, ownerID uint64, args map[string]interface{}) (map[string]interface{}, error) {
			status, _ := args["status"].(string)
			var completed *bool
			switch status {
			case "pending":
				f := false
				completed = &f
			case "completed":
				t := true
				completed = &t
			}
			tasks, err := store.ListTasks(ownerID, completed)
			if err != nil {
				return nil, err
			}
			items := make([]interface{}, 0, len(tasks))
			for i := range tasks {
				items = append(items, taskResult(&tasks[i]))
			}
			return map[string]interface{}{"count": len(tasks), "tasks": items}, nil
		},
	}
}

func completeTaskTool(store TaskStore) *Tool {
	return &Tool{
		Name:        "complete_task",
		Description: "Mark one of the user's tasks as completed.",
		Schema: &Schema{
			Properties: map[string]Property{
				"task_id": {Type: "integer", Description: "Id of the task to complete"},
			},
			Required: []string{"task_id"},
		},
		Run: func(ctx context.Context, ownerID uint64, args map[string]interface{}) (map[string]interface{}, error) {
			taskID := argUint64(args, "task_id")
			task, err := store.UpdateTask(ownerID, taskID, map[string]interface{}{"completed": true})
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundResult(taskID), nil
			}
			if err != nil {
				return nil, err
			}
			return taskResult(task), nil
		},
	}
}

func deleteTaskTool(store TaskStore) *Tool {
	return &Tool{
		Name:        "delete_task",
		Description: "Delete one of the user's tasks.",
		Schema: &Schema{
			Properties: map[string]Property{
				"task_id": {Type: "integer", Description: "Id of the task to delete"},
			},
			Required: []string{"task_id"},
		},
		Run: func(ctx context.Context, ownerID uint64, args map[string]interface{}) (map[string]interface{}, error) {
			taskID := argUint64(args, "task_id")
			err := store.DeleteTask(ownerID, taskID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundResult(taskID), nil
			}
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"deleted": true, "task_id": taskID}, nil
		},
	}
}

func updateTaskTool(store TaskStore) *Tool {
	return &Tool{
		Name:        "update_task",
		Description: "Change the title and/or description of one of the user's tasks.",
		Schema: &Schema{
			Properties: map[string]Property{
				"task_id":     {Type: "integer", Description: "Id of the task to update"},
				"title":       {Type: "string", Description: "New title"},
				"description": {Type: "string", Description: "New description"},
			},
			Required: []string{"task_id"},
		},
		Run: func(ctx context.Context, ownerID uint64, args map[string]interface{}) (map[string]interface{}, error) {
			taskID := argUint64(args, "task_id")
			updates := map[string]interface{}{}
			if title, ok := args["title"].(string); ok {
				updates["title"] = title
			}
			if description, ok := args["description"].(string); ok {
				updates["description"] = description
			}
			if len(updates) == 0 {
				return map[string]interface{}{"ok": false, "error": "nothing to update: provide title and/or description"}, nil
			}
			task, err := store.UpdateTask(ownerID, taskID, updates)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundResult(taskID), nil
			}
			if err != nil {
				return nil, err
			}
			return taskResult(task), nil
		},
	}
}

func taskResult(task *models.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
	}
}

// notFoundResult reports a task the owner does not have. This is a normal
// answer, not an execution fault: the id may belong to another user or to
// nothing at all, and the model should hear the same thing either way.
func notFoundResult(taskID uint64) map[string]interface{} {
	return map[string]interface{}{
		"ok":    false,
		"error": fmt.Sprintf("no task with id %d on your list", taskID),
	}
}

func argUint64(args map[string]interface{}, key string) uint64 {
	switch v := args[key].(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case int:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case int64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case uint64:
		return v
	}
	return 0
}
