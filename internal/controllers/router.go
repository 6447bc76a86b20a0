package controllers

import "net/http"

// RegisterRoutes wires the HTTP routes for this controller.
func (c *WorkflowsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/workflows", c.RequireAuth(c.handleCreateWorkflow))
	mux.HandleFunc("GET /api/workflows", c.RequireAuth(c.handleListWorkflows))
	mux.HandleFunc("GET /api/workflows/{id}", c.RequireAuth(c.handleGetWorkflow))
	mux.HandleFunc("PUT /api/workflows/{id}", c.RequireAuth(c.handleUpdateWorkflow))
	mux.HandleFunc("DELETE /api/workflows/{id}", c.RequireAuth(c.handleDeleteWorkflow))
	mux.HandleFunc("POST /api/workflows/{id}/run", c.RequireAuth(c.handleRunWorkflow))
}

func (c *ExecutionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/executions/{id}", c.RequireAuth(c.handleGetExecution))
	mux.HandleFunc("GET /api/workflows/{id}/executions", c.RequireAuth(c.handleListExecutions))
}

func (c *NotificationsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notifications", c.RequireAuth(c.handleListNotifications))
	mux.HandleFunc("POST /api/notifications/{id}/read", c.RequireAuth(c.handleMarkRead))
}

// Hook routes are deliberately outside RequireAuth: external systems call
// them, and the unguessable external ID in the path is the credential.
func (c *HooksController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/hooks/{externalId}", c.handleHook)
}
