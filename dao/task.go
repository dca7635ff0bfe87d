package dao

import (
	"gorm.io/gorm"

	"taskchat-backend/models"
)

// TaskDAO handles task-related database operations. Every query is scoped by
// owner id; there is no unscoped access path.
type TaskDAO struct {
	db *gorm.DB
}

func NewTaskDAO(db *gorm.DB) *TaskDAO {
	return &TaskDAO{db: db}
}

// CreateTask creates a task for an owner
func (d *TaskDAO) CreateTask(ownerID uint64, title, description string) (*models.Task, error) {
	task := &models.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	if err := d.db.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a single task by id, scoped to the owner
func (d *TaskDAO) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	var task models.Task
	if err := d.db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks retrieves an owner's tasks. completed filters by completion state
// when non-nil.
func (d *TaskDAO) ListTasks(ownerID uint64, completed *bool) ([]models.Task, error) {
	var tasks []models.Task
	q := d.db.Where("owner_id = ?", ownerID)
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}
	if err := q.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies the given column updates to an owner's task
func (d *TaskDAO) UpdateTask(ownerID, taskID uint64, updates map[string]interface{}) (*models.Task, error) {
	result := d.db.Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", taskID, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.GetTask(ownerID, taskID)
}

// DeleteTask deletes an owner's task
func (d *TaskDAO) DeleteTask(ownerID, taskID uint64) error {
	result := d.db.Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
