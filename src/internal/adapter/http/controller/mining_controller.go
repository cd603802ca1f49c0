package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kook-app/mining-service/src/internal/usecase/service_interfaces"
)

type MiningController struct {
	service service_interfaces.MiningService
}

func NewMiningController(service service_interfaces.MiningService) *MiningController {
	return &MiningController{service: service}
}

func (c *MiningController) RegisterRoutes(router *mux.Router) {
	mining := router.PathPrefix("/accounts/{accountId}/mining").Subrouter()
	mining.HandleFunc("/status", c.status).Methods(http.MethodGet)
	mining.HandleFunc("/statistics", c.statistics).Methods(http.MethodGet)
	mining.HandleFunc("/balance", c.balance).Methods(http.MethodGet)
	mining.HandleFunc("/start", c.start).Methods(http.MethodPost)
	mining.HandleFunc("/complete", c.complete).Methods(http.MethodPost)

	router.HandleFunc("/network/stats", c.networkStats).Methods(http.MethodGet)
}

func (c *MiningController) networkStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetNetworkStats(r.Context())
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *MiningController) status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetStatus(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *MiningController) statistics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetStatistics(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *MiningController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetRealTimeBalance(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *MiningController) start(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.StartMining(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *MiningController) complete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.CompleteMining(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}
