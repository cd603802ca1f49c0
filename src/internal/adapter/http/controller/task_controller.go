package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/usecase/service_interfaces"
)

type TaskController struct {
	service service_interfaces.TaskService
}

func NewTaskController(service service_interfaces.TaskService) *TaskController {
	return &TaskController{service: service}
}

func (c *TaskController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tasks", c.createTask).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{accountId}/tasks", c.listTasks).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{accountId}/tasks/{taskId}/complete", c.completeTask).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{accountId}/tasks/{taskId}/verify", c.verifyTask).Methods(http.MethodPost)
}

func (c *TaskController) createTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateTaskRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	response, err := c.service.CreateTask(r.Context(), req)
	respond(w, r, http.StatusCreated, response, err, start)
}

func (c *TaskController) listTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListTasks(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *TaskController) completeTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	vars := mux.Vars(r)
	response, err := c.service.CompleteTask(r.Context(), vars["accountId"], vars["taskId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *TaskController) verifyTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VerifyTaskRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	vars := mux.Vars(r)
	response, err := c.service.VerifyTask(r.Context(), vars["accountId"], vars["taskId"], req)
	respond(w, r, http.StatusOK, response, err, start)
}
