package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/usecase/service_interfaces"
)

type TeamController struct {
	service service_interfaces.TeamService
}

func NewTeamController(service service_interfaces.TeamService) *TeamController {
	return &TeamController{service: service}
}

func (c *TeamController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/teams", c.createTeam).Methods(http.MethodPost)
	router.HandleFunc("/teams/{teamId}", c.getTeam).Methods(http.MethodGet)
	router.HandleFunc("/teams/{teamId}/members", c.listMembers).Methods(http.MethodGet)
	router.HandleFunc("/teams/{teamId}/members", c.joinTeam).Methods(http.MethodPost)
}

func (c *TeamController) listMembers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListMembers(r.Context(), mux.Vars(r)["teamId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *TeamController) createTeam(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateTeamRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	response, err := c.service.CreateTeam(r.Context(), req)
	respond(w, r, http.StatusCreated, response, err, start)
}

func (c *TeamController) getTeam(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetTeam(r.Context(), mux.Vars(r)["teamId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *TeamController) joinTeam(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.JoinTeamRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	response, err := c.service.JoinTeam(r.Context(), mux.Vars(r)["teamId"], req)
	respond(w, r, http.StatusOK, response, err, start)
}
