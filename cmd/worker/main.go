package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"storeflow/internal/accounts"
	"storeflow/internal/dispatch"
	"storeflow/internal/gateway"
	"storeflow/internal/models"
	"storeflow/internal/recon"
	"storeflow/internal/services"
	"storeflow/internal/store"
	"storeflow/internal/tasks"
)

// defaultRecheckRule runs the pending-payment recheck every 15 minutes.
const defaultRecheckRule = "FREQ=MINUTELY;INTERVAL=15"

func main() {
	// Missing .env just means system environment only.
	_ = godotenv.Load()

	logger := services.NewLogger()
	defer logger.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}
	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		logger.Warnf("Firebase initialization failed: %v", err)
	}

	st := store.New(db)
	provisioner := accounts.NewProvisioner(authClient, st, logger)
	reconciler := recon.New(st, gateway.ClientFor, dispatch.NewWebhookDispatcher(), dispatch.NewMailer(), provisioner, logger)

	tasks.DefineTasks()
	deps := tasks.Deps{DB: db, Payments: st, Recon: reconciler, Logger: logger}

	if err := seedRecheckTask(db); err != nil {
		logger.Warnf("Failed to seed recheck task: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutting down worker...")
		cancel()
	}()

	logger.Info("Worker started")

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	processScheduledTasks(ctx, deps)

	for {
		select {
		case <-ticker.C:
			processScheduledTasks(ctx, deps)
		case <-ctx.Done():
			return
		}
	}
}

// seedRecheckTask makes sure the recurring pending-payment recheck exists.
func seedRecheckTask(db *gorm.DB) error {
	var count int64
	err := db.Model(&models.ScheduledTask{}).
		Where("task_name = ? AND status = ?", tasks.RecheckPendingTask.TaskID(), models.ScheduledTaskStatusActive).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	task, err := tasks.RecheckPendingTask.CreateTask(tasks.RecheckPendingArgs{OlderThanMinutes: 15, Limit: 100}, defaultRecheckRule)
	if err != nil {
		return err
	}
	return db.Create(task).Error
}

func processScheduledTasks(ctx context.Context, deps tasks.Deps) {
	var pendingTasks []models.ScheduledTask
	now := time.Now()
	if err := deps.DB.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).Find(&pendingTasks).Error; err != nil {
		deps.Logger.Errorf("Error fetching pending tasks: %v", err)
		return
	}

	if len(pendingTasks) == 0 {
		return
	}

	deps.Logger.Infof("Found %d pending tasks", len(pendingTasks))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		executeTask(ctx, deps, task)
	}
}

func executeTask(ctx context.Context, deps tasks.Deps, task models.ScheduledTask) {
	deps.Logger.Infow("Processing task", "task", task.TaskName, "id", task.ID)

	handler, found := tasks.GetHandler(task.TaskName)
	if !found {
		deps.Logger.Errorf("Task handler not found for: %s, marking as failure", task.TaskName)
		now := time.Now()
		deps.DB.Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		deps.DB.Create(&models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          "handler_not_found",
			AttemptNumber:   1,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		})
		return
	}

	var result map[string]interface{}
	var err error
	startTime := time.Now()

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}
	attempt := 0
	for attempt < maxAttempt {
		attempt++
		result, err = handler(ctx, deps, task)
		if err == nil {
			break
		}
		deps.Logger.Warnw("Task attempt failed", "task", task.TaskName, "attempt", attempt, "error", err)
	}
	runtimeMs := int(time.Since(startTime).Milliseconds())

	status := "success"
	resultData := result
	if err != nil {
		status = "failure"
		resultData = map[string]interface{}{"error": err.Error()}
	}

	deps.DB.Create(&models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startTime,
		Runtime:         runtimeMs,
		Status:          status,
		AttemptNumber:   attempt,
		Arguments:       task.Arguments,
		Result:          resultData,
	})

	taskUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if status != "success" {
		taskUpdates["status"] = models.ScheduledTaskStatusFailure
	} else {
		switch task.TaskType {
		case models.ScheduledTaskTypeOneTime:
			taskUpdates["status"] = models.ScheduledTaskStatusDone
		case models.ScheduledTaskTypeRecurring:
			nextDue := task.NextDue()
			// Guard against a rule that yields a past date, which would
			// re-run the task on every tick.
			if nextDue.After(task.Due) {
				taskUpdates["status"] = models.ScheduledTaskStatusActive
				taskUpdates["due"] = nextDue
			} else {
				taskUpdates["status"] = models.ScheduledTaskStatusDone
			}
		}
	}

	deps.DB.Model(&task).Updates(taskUpdates)
}
