package client

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/HannanShehzad/TaskManager/internal/models"
)

// ErrMutationInFlight is returned when a mutation is requested for a task
// that already has one outstanding. Mutations to different tasks are
// independent and may run concurrently.
var ErrMutationInFlight = errors.New("a mutation for this task is already in flight")

// Notifier receives mutation failures so the UI can surface them. It is
// called outside the cache lock.
type Notifier func(err error)

// TaskCache mirrors the server's task store for one session. It is the
// UI's source of truth between round-trips. Updates and deletes are applied
// optimistically; on failure the cache reconciles by reloading the full
// list from the server rather than attempting a field-level rollback.
type TaskCache struct {
	api    *APIClient
	notify Notifier

	mu       sync.Mutex
	order    []uuid.UUID
	tasks    map[uuid.UUID]models.Task
	inflight map[uuid.UUID]bool
}

func NewTaskCache(api *APIClient, notify Notifier) *TaskCache {
	if notify == nil {
		notify = func(error) {}
	}
	return &TaskCache{
		api:      api,
		notify:   notify,
		tasks:    make(map[uuid.UUID]models.Task),
		inflight: make(map[uuid.UUID]bool),
	}
}

// Refresh replaces the whole cache with a fresh server listing. Used at
// session start and as the recovery path after a failed mutation.
func (c *TaskCache) Refresh(ctx context.Context) error {
	tasks, err := c.api.ListTasks(ctx, "")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = c.order[:0]
	c.tasks = make(map[uuid.UUID]models.Task, len(tasks))
	for _, t := range tasks {
		c.order = append(c.order, t.ID)
		c.tasks[t.ID] = t
	}
	return nil
}

// Snapshot returns the cached tasks in insertion order.
func (c *TaskCache) Snapshot() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Task, 0, len(c.order))
	for _, id := range c.order {
		if t, ok := c.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the cached task with the given id.
func (c *TaskCache) Get(id uuid.UUID) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[id]
	return t, ok
}

// Pending reports whether a mutation for id is outstanding. Views use this
// to disable the task's controls.
func (c *TaskCache) Pending(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[id]
}

// Create sends a new task to the server and appends the returned record.
// There is no optimistic step: until the server answers there is no task id
// to cache under. On failure the cache is untouched.
func (c *TaskCache) Create(ctx context.Context, draft TaskDraft) (models.Task, error) {
	task, err := c.api.CreateTask(ctx, draft)
	if err != nil {
		c.notify(err)
		return models.Task{}, err
	}

	c.mu.Lock()
	c.order = append(c.order, task.ID)
	c.tasks[task.ID] = task
	c.mu.Unlock()
	return task, nil
}

// Update applies the patch to the cached entry immediately, then issues the
// API call. On failure the error is surfaced and the cache resynchronizes
// via Refresh.
func (c *TaskCache) Update(ctx context.Context, id uuid.UUID, patch TaskPatch) error {
	c.mu.Lock()
	task, ok := c.tasks[id]
	if !ok {
		c.mu.Unlock()
		return errors.New("task not in cache")
	}
	if c.inflight[id] {
		c.mu.Unlock()
		return ErrMutationInFlight
	}
	c.inflight[id] = true
	c.tasks[id] = applyPatch(task, patch)
	c.mu.Unlock()

	updated, err := c.api.UpdateTask(ctx, id, patch)

	c.mu.Lock()
	delete(c.inflight, id)
	if err == nil {
		// Server copy carries authoritative timestamps.
		if _, still := c.tasks[id]; still {
			c.tasks[id] = updated
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.notify(err)
		c.recover(ctx)
		return err
	}
	return nil
}

// Remove deletes the cached entry immediately, then issues the API call.
// Failures recover the same way Update does: reload truth from the server.
func (c *TaskCache) Remove(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	if _, ok := c.tasks[id]; !ok {
		c.mu.Unlock()
		return errors.New("task not in cache")
	}
	if c.inflight[id] {
		c.mu.Unlock()
		return ErrMutationInFlight
	}
	c.inflight[id] = true
	delete(c.tasks, id)
	c.mu.Unlock()

	err := c.api.DeleteTask(ctx, id)

	c.mu.Lock()
	delete(c.inflight, id)
	if err == nil {
		c.dropFromOrder(id)
	}
	c.mu.Unlock()

	if err != nil {
		c.notify(err)
		c.recover(ctx)
		return err
	}
	return nil
}

func (c *TaskCache) recover(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.notify(err)
	}
}

func (c *TaskCache) dropFromOrder(id uuid.UUID) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func applyPatch(task models.Task, patch TaskPatch) models.Task {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	// The optimistic copy keeps its old DueDate on a date patch; the
	// server response or the recovery refresh supplies the parsed value.
	return task
}
