package queue

import (
	"github.com/hibiken/asynq"
)

// NewMux wires every task type to its worker.
func NewMux(cv *CVWorker) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCVProcess, cv.ProcessTask)
	return mux
}
