package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"hangiplatform/services/scheduler"
)

type taskRunner interface {
	Status() []scheduler.TaskStatus
	RunNow(ctx context.Context, name string) error
}

var _ taskRunner = (*scheduler.Service)(nil)

// TasksHandler exposes the background refresh jobs.
type TasksHandler struct {
	Runner taskRunner
}

func NewTasksHandler(runner taskRunner) *TasksHandler {
	return &TasksHandler{Runner: runner}
}

type TasksResponse struct {
	Tasks []scheduler.TaskStatus `json:"tasks"`
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TasksResponse{Tasks: h.Runner.Status()})
}

// Run starts a task in the background and answers 202 right away. The run
// outlives the request; its outcome shows up in List.
func (h *TasksHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	st, ok := h.find(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Görev bulunamadı")
		return
	}
	if st.Running {
		writeError(w, http.StatusConflict, "Görev zaten çalışıyor")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := h.Runner.RunNow(ctx, name); err != nil && !errors.Is(err, scheduler.ErrTaskRunning) {
			log.Printf("[tasks] manual run of %s failed: %v", name, err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started", "task": name})
}

func (h *TasksHandler) find(name string) (scheduler.TaskStatus, bool) {
	for _, st := range h.Runner.Status() {
		if st.Name == name {
			return st, true
		}
	}
	return scheduler.TaskStatus{}, false
}
