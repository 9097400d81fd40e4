package routes

import (
	"net/http"

	"civicgrid/controllers/tasks"
	"civicgrid/middleware"

	"github.com/gorilla/mux"
)

// TasksRoutes registers task reporting, verification and discussion routes.
func TasksRoutes(api *mux.Router) {
	api.Handle("/tasks", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.CreateTaskHandler)))).Methods(http.MethodPost)
	api.Handle("/tasks", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.ListTasksHandler)))).Methods(http.MethodGet)
	api.Handle("/tasks/mine", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.MyTasksHandler)))).Methods(http.MethodGet)
	api.Handle("/tasks/nearby", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.NearbyTasksHandler)))).Methods(http.MethodGet)

	api.Handle("/tasks/{id:[0-9]+}/votes", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.VoteHandler)))).Methods(http.MethodPost)

	api.Handle("/tasks/{id:[0-9]+}/comments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.CreateCommentHandler)))).Methods(http.MethodPost)
	api.Handle("/tasks/{id:[0-9]+}/comments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(tasks.ListCommentsHandler)))).Methods(http.MethodGet)
}
