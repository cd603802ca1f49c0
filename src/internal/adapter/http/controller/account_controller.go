package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kook-app/mining-service/src/internal/adapter/http/models"
	"github.com/kook-app/mining-service/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", c.createAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{accountId}", c.getAccount).Methods(http.MethodGet)
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateAccountRequest
	if !decodeBody(w, r, &req, start) {
		return
	}

	response, err := c.service.CreateAccount(r.Context(), req)
	respond(w, r, http.StatusCreated, response, err, start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetAccount(r.Context(), mux.Vars(r)["accountId"])
	respond(w, r, http.StatusOK, response, err, start)
}
