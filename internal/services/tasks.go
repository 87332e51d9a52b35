package services

import (
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

// CreateTaskInput carries the client-supplied fields of a new task. The
// owner is never part of the input; it is stamped from the authenticated
// identity by the service.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Status      *string
}

type TaskService interface {
	CreateTask(db *gorm.DB, ownerID uuid.UUID, in CreateTaskInput) (models.Task, error)
	GetTasks(db *gorm.DB, ownerID uuid.UUID, status string) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, in UpdateTaskInput) (models.Task, error)
	DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// dueDateLayouts are the accepted due date encodings, tried in order.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unparseable due date")
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, in CreateTaskInput) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, apperror.Validation("title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return models.Task{}, apperror.Validation("description")
	}
	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return models.Task{}, apperror.Validation("dueDate")
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return models.Task{}, apperror.Validation("status")
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     due,
		Status:      status,
	}
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, apperror.Internal(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) GetTasks(db *gorm.DB, ownerID uuid.UUID, status string) ([]models.Task, error) {
	q := db.Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := q.Order("created_at").Find(&tasks).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperror.NotFound("task")
		}
		return models.Task{}, apperror.Internal(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, in UpdateTaskInput) (models.Task, error) {
	task, err := s.GetTaskByID(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return models.Task{}, apperror.Validation("title")
		}
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return models.Task{}, apperror.Validation("description")
		}
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return models.Task{}, apperror.Validation("dueDate")
		}
		task.DueDate = due
	}
	if in.Status != nil {
		if !models.ValidStatus(*in.Status) {
			return models.Task{}, apperror.Validation("status")
		}
		task.Status = *in.Status
	}

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, apperror.Internal(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	result := db.Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("task")
	}
	return nil
}
