package services

import (
	"strings"
	"testing"

	"github.com/gofrs/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.Token{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newOwner(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.Must(uuid.NewV4())
}

func validInput() CreateTaskInput {
	return CreateTaskInput{
		Title:       "write report",
		Description: "quarterly numbers",
		DueDate:     "2025-01-15",
	}
}

func TestCreateTask_DefaultsToPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	task, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.Status != models.StatusPending {
		t.Errorf("expected default status %q, got %q", models.StatusPending, task.Status)
	}
	if task.ID == uuid.Nil {
		t.Error("expected generated task id")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateTask_StampsOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	task, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.OwnerID != owner {
		t.Errorf("expected owner %s, got %s", owner, task.OwnerID)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	cases := []struct {
		name  string
		mut   func(*CreateTaskInput)
		field string
	}{
		{"empty title", func(in *CreateTaskInput) { in.Title = "" }, "title"},
		{"blank title", func(in *CreateTaskInput) { in.Title = "   " }, "title"},
		{"empty description", func(in *CreateTaskInput) { in.Description = "" }, "description"},
		{"bad due date", func(in *CreateTaskInput) { in.DueDate = "not-a-date" }, "dueDate"},
		{"empty due date", func(in *CreateTaskInput) { in.DueDate = "" }, "dueDate"},
		{"bad status", func(in *CreateTaskInput) { in.Status = "Done" }, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)

			_, err := svc.CreateTask(db, owner, in)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if apperror.KindOf(err) != apperror.KindValidation {
				t.Errorf("expected validation kind, got %v", apperror.KindOf(err))
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error to cite %q, got %q", tc.field, err.Error())
			}
		})
	}
}

func TestCreateTask_AcceptsRFC3339DueDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()

	in := validInput()
	in.DueDate = "2025-03-01T10:00:00Z"

	if _, err := svc.CreateTask(db, newOwner(t), in); err != nil {
		t.Fatalf("CreateTask failed for RFC3339 due date: %v", err)
	}
}

func TestGetTasks_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	alice := newOwner(t)
	bob := newOwner(t)

	if _, err := svc.CreateTask(db, alice, validInput()); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	bobTasks, err := svc.GetTasks(db, bob, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(bobTasks) != 0 {
		t.Errorf("expected bob to see 0 tasks, got %d", len(bobTasks))
	}

	aliceTasks, err := svc.GetTasks(db, alice, "")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(aliceTasks) != 1 {
		t.Errorf("expected alice to see 1 task, got %d", len(aliceTasks))
	}
}

func TestOwnershipIsolation_MutationsFailNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	alice := newOwner(t)
	bob := newOwner(t)

	task, err := svc.CreateTask(db, alice, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.GetTaskByID(db, bob, task.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected NotFound for get by other owner, got %v", err)
	}

	title := "hijacked"
	_, err = svc.UpdateTask(db, bob, task.ID, UpdateTaskInput{Title: &title})
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected NotFound for update by other owner, got %v", err)
	}

	if err := svc.DeleteTask(db, bob, task.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected NotFound for delete by other owner, got %v", err)
	}

	// The task is untouched.
	got, err := svc.GetTaskByID(db, alice, task.ID)
	if err != nil {
		t.Fatalf("owner lost access to own task: %v", err)
	}
	if got.Title != task.Title {
		t.Errorf("task was mutated by a non-owner: %q", got.Title)
	}
}

func TestGetTasks_StatusFilterExactMatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	in := validInput()
	if _, err := svc.CreateTask(db, owner, in); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	in.Status = models.StatusInProgress
	if _, err := svc.CreateTask(db, owner, in); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	in.Status = models.StatusCompleted
	if _, err := svc.CreateTask(db, owner, in); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	pending, err := svc.GetTasks(db, owner, models.StatusPending)
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}
	for _, task := range pending {
		if task.Status != models.StatusPending {
			t.Errorf("filter leaked status %q", task.Status)
		}
	}
}

func TestUpdateTask_PartialMerge(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	task, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	status := models.StatusCompleted
	updated, err := svc.UpdateTask(db, owner, task.ID, UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	if updated.Status != models.StatusCompleted {
		t.Errorf("expected status %q, got %q", models.StatusCompleted, updated.Status)
	}
	if updated.Title != task.Title {
		t.Errorf("title changed on partial update: %q", updated.Title)
	}
	if updated.Description != task.Description {
		t.Errorf("description changed on partial update: %q", updated.Description)
	}
	if !updated.DueDate.Equal(task.DueDate) {
		t.Errorf("due date changed on partial update: %v", updated.DueDate)
	}
}

func TestUpdateTask_RevalidatesFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	task, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	empty := ""
	if _, err := svc.UpdateTask(db, owner, task.ID, UpdateTaskInput{Title: &empty}); apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error for empty title, got %v", err)
	}

	bad := "Cancelled"
	if _, err := svc.UpdateTask(db, owner, task.ID, UpdateTaskInput{Status: &bad}); apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestDeleteTask_ThenGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService()
	owner := newOwner(t)

	task, err := svc.CreateTask(db, owner, validInput())
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := svc.DeleteTask(db, owner, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if _, err := svc.GetTaskByID(db, owner, task.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected NotFound after delete, got %v", err)
	}

	// A second delete reports NotFound too.
	if err := svc.DeleteTask(db, owner, task.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
}
