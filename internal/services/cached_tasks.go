package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/HannanShehzad/TaskManager/internal/cache"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

// CachedTaskService decorates a TaskService with read-through caching of
// per-owner task lists and single tasks. Every mutation by an owner drops
// all of that owner's cached entries.
type CachedTaskService struct {
	inner TaskService
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedTaskService(inner TaskService, c cache.Cache, ttl time.Duration) *CachedTaskService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedTaskService{inner: inner, cache: c, ttl: ttl}
}

func ownerKeyPrefix(ownerID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s:", ownerID)
}

func listKey(ownerID uuid.UUID, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("tasks:%s:list:%s", ownerID, status)
}

func taskKey(ownerID, taskID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s:id:%s", ownerID, taskID)
}

func (s *CachedTaskService) invalidate(ownerID uuid.UUID) {
	// Best effort; a failed invalidation only shortens cache accuracy
	// until the TTL expires.
	_ = s.cache.DeletePattern(ownerKeyPrefix(ownerID) + "*")
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, ownerID uuid.UUID, in CreateTaskInput) (models.Task, error) {
	task, err := s.inner.CreateTask(db, ownerID, in)
	if err == nil {
		s.invalidate(ownerID)
	}
	return task, err
}

func (s *CachedTaskService) GetTasks(db *gorm.DB, ownerID uuid.UUID, status string) ([]models.Task, error) {
	key := listKey(ownerID, status)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Degrade to the database on cache errors.
		return s.inner.GetTasks(db, ownerID, status)
	}

	tasks, err := s.inner.GetTasks(db, ownerID, status)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(key, tasks, s.ttl)
	return tasks, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	key := taskKey(ownerID, taskID)

	var cached models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	task, err := s.inner.GetTaskByID(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	_ = s.cache.Set(key, task, s.ttl)
	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, in UpdateTaskInput) (models.Task, error) {
	task, err := s.inner.UpdateTask(db, ownerID, taskID, in)
	if err == nil {
		s.invalidate(ownerID)
	}
	return task, err
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	err := s.inner.DeleteTask(db, ownerID, taskID)
	if err == nil {
		s.invalidate(ownerID)
	}
	return err
}
