package routes

import (
	"net/http"

	"civicgrid/controllers/rewards"
	"civicgrid/middleware"

	"github.com/gorilla/mux"
)

// RewardsRoutes registers the reward catalog and redemption routes.
func RewardsRoutes(api *mux.Router) {
	api.Handle("/rewards", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(rewards.ListRewardsHandler)))).Methods(http.MethodGet)
	api.Handle("/rewards", middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(rewards.CreateRewardHandler)))).Methods(http.MethodPost)
	api.Handle("/rewards/{id:[0-9]+}", middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(rewards.DeleteRewardHandler)))).Methods(http.MethodDelete)

	api.Handle("/rewards/{id:[0-9]+}/claims", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(rewards.ClaimRewardHandler)))).Methods(http.MethodPost)
	api.Handle("/users/me/claims", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(rewards.MyClaimsHandler)))).Methods(http.MethodGet)
}
