package services

import (
	"testing"
	"time"

	"github.com/HannanShehzad/TaskManager/internal/cache"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

func TestCachedTaskService_ReadThrough(t *testing.T) {
	db := setupTestDB(t)
	mem := cache.NewMemoryCache()
	defer mem.Close()

	svc := NewCachedTaskService(NewTaskService(), mem, time.Minute)
	owner := newOwner(t)

	created, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// First read populates the cache, second read hits it.
	first, err := svc.GetTasks(db, owner, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	second, err := svc.GetTasks(db, owner, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 task from both reads, got %d and %d", len(first), len(second))
	}
	if second[0].ID != created.ID {
		t.Errorf("cached read returned wrong task: %s", second[0].ID)
	}
}

func TestCachedTaskService_MutationInvalidates(t *testing.T) {
	db := setupTestDB(t)
	mem := cache.NewMemoryCache()
	defer mem.Close()

	svc := NewCachedTaskService(NewTaskService(), mem, time.Minute)
	owner := newOwner(t)

	task, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// Warm the list cache.
	if _, err := svc.GetTasks(db, owner, ""); err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}

	status := models.StatusCompleted
	if _, err := svc.UpdateTask(db, owner, task.ID, UpdateTaskInput{Status: &status}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	tasks, err := svc.GetTasks(db, owner, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if tasks[0].Status != models.StatusCompleted {
		t.Errorf("stale cache after mutation: status %q", tasks[0].Status)
	}

	if err := svc.DeleteTask(db, owner, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	tasks, err = svc.GetTasks(db, owner, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("stale cache after delete: %d tasks", len(tasks))
	}
}

func TestCachedTaskService_OwnerScopedKeys(t *testing.T) {
	db := setupTestDB(t)
	mem := cache.NewMemoryCache()
	defer mem.Close()

	svc := NewCachedTaskService(NewTaskService(), mem, time.Minute)
	alice := newOwner(t)
	bob := newOwner(t)

	if _, err := svc.CreateTask(db, alice, validInput()); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	aliceTasks, err := svc.GetTasks(db, alice, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	bobTasks, err := svc.GetTasks(db, bob, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}

	if len(aliceTasks) != 1 {
		t.Errorf("expected alice to see 1 task, got %d", len(aliceTasks))
	}
	if len(bobTasks) != 0 {
		t.Errorf("cache leaked alice's tasks to bob: %d", len(bobTasks))
	}
}
