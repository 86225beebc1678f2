package tasks

// DefineTasks registers all available tasks
func DefineTasks(r *Registry) {
	r.Register(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)
	r.Register(FlushVisitsTask.TaskID(), FlushVisitsTask.HandleExecution)
}
