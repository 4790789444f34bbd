package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	RegisterHandler(RecheckPendingTask.TaskID(), RecheckPendingTask.HandleExecution)
}
