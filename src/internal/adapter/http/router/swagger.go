package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func registerSwaggerRoutes(router *mux.Router) {
	router.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	}).Methods(http.MethodGet)

	router.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	}).Methods(http.MethodGet)

	router.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	}).Methods(http.MethodGet)
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Kook Mining Service API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Kook Mining Service API",
    "version": "1.0.0"
  },
  "security": [{"BasicAuth": []}],
  "paths": {
    "/accounts": {
      "post": {
        "summary": "Create account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["name", "email"],
                "properties": {
                  "name": {"type": "string", "maxLength": 120},
                  "email": {"type": "string", "format": "email"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "401": {"description": "Unauthorized"},
          "409": {"description": "Email already registered"},
          "500": {"description": "Server error"}
        }
      }
    },
    "/accounts/{accountId}": {
      "get": {
        "summary": "Get account with its current balance",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Account fetched"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/network/stats": {
      "get": {
        "summary": "Active miners, active mining rate and total supply",
        "responses": {
          "200": {"description": "Network statistics fetched"}
        }
      }
    },
    "/accounts/{accountId}/mining/status": {
      "get": {
        "summary": "Mining session status, time remaining and session earnings",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Status fetched"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/accounts/{accountId}/mining/statistics": {
      "get": {
        "summary": "Balance, rate, team activity and days active",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Statistics fetched"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/accounts/{accountId}/mining/balance": {
      "get": {
        "summary": "Real-time balance",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Balance fetched"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/accounts/{accountId}/mining/start": {
      "post": {
        "summary": "Start a 24-hour mining session",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Mining started"},
          "400": {"description": "A session is already in progress"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/accounts/{accountId}/mining/complete": {
      "post": {
        "summary": "Complete a finished mining session",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Session completed"},
          "400": {"description": "No active session"},
          "403": {"description": "Session has not reached 24 hours"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/teams": {
      "post": {
        "summary": "Create team owned by an account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["name", "ownerId"],
                "properties": {
                  "name": {"type": "string"},
                  "ownerId": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "404": {"description": "Owner not found"},
          "409": {"description": "Owner already in a team"}
        }
      }
    },
    "/teams/{teamId}": {
      "get": {
        "summary": "Get team with member count and bonus",
        "parameters": [{"$ref": "#/components/parameters/TeamID"}],
        "responses": {
          "200": {"description": "Team fetched"},
          "404": {"description": "Team not found"}
        }
      }
    },
    "/teams/{teamId}/members": {
      "get": {
        "summary": "List team members with recent mining activity",
        "parameters": [{"$ref": "#/components/parameters/TeamID"}],
        "responses": {
          "200": {"description": "Members fetched"},
          "404": {"description": "Team not found"}
        }
      },
      "post": {
        "summary": "Join team",
        "parameters": [{"$ref": "#/components/parameters/TeamID"}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["accountId"],
                "properties": {"accountId": {"type": "string"}}
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Joined"},
          "404": {"description": "Team or account not found"},
          "409": {"description": "Account already in a team"}
        }
      }
    },
    "/tasks": {
      "post": {
        "summary": "Create task",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["title", "reward", "dueDate"],
                "properties": {
                  "title": {"type": "string"},
                  "description": {"type": "string"},
                  "reward": {"type": "string"},
                  "dueDate": {"type": "string", "format": "date-time"},
                  "actionType": {"type": "string", "enum": ["url", "video", "in_app", "simple"]},
                  "actionData": {"type": "string"},
                  "verificationCode": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"}
        }
      }
    },
    "/accounts/{accountId}/tasks": {
      "get": {
        "summary": "List active tasks with completion flag",
        "parameters": [{"$ref": "#/components/parameters/AccountID"}],
        "responses": {
          "200": {"description": "Tasks fetched"}
        }
      }
    },
    "/accounts/{accountId}/tasks/{taskId}/complete": {
      "post": {
        "summary": "Complete a simple task",
        "parameters": [
          {"$ref": "#/components/parameters/AccountID"},
          {"$ref": "#/components/parameters/TaskID"}
        ],
        "responses": {
          "200": {"description": "Reward credited"},
          "400": {"description": "Task requires verification"},
          "404": {"description": "Task or account not found"},
          "409": {"description": "Task already completed"}
        }
      }
    },
    "/accounts/{accountId}/tasks/{taskId}/verify": {
      "post": {
        "summary": "Verify a task with its code",
        "parameters": [
          {"$ref": "#/components/parameters/AccountID"},
          {"$ref": "#/components/parameters/TaskID"}
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["verificationCode"],
                "properties": {"verificationCode": {"type": "string"}}
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Reward credited"},
          "400": {"description": "Invalid verification code"},
          "409": {"description": "Task already completed"}
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    },
    "parameters": {
      "AccountID": {"name": "accountId", "in": "path", "required": true, "schema": {"type": "string"}},
      "TeamID": {"name": "teamId", "in": "path", "required": true, "schema": {"type": "string"}},
      "TaskID": {"name": "taskId", "in": "path", "required": true, "schema": {"type": "string"}}
    }
  }
}`
