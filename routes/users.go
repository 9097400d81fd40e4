package routes

import (
	"net/http"

	"civicgrid/controllers/auth"
	"civicgrid/controllers/users"
	"civicgrid/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers authentication and account routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)

	// Profile
	api.Handle("/users/me", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MeHandler)))).Methods(http.MethodGet)
	api.Handle("/users/me", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateProfileHandler)))).Methods(http.MethodPut)
	api.Handle("/users/avatar", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UploadAvatarHandler)))).Methods(http.MethodPut)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)

	// Leaderboard (public)
	api.Handle("/leaderboard", userLimiter.Middleware(http.HandlerFunc(users.LeaderboardHandler))).Methods(http.MethodGet)

	// Admin: direct score adjustments and rank recompute
	api.Handle("/users/score", middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(users.AdjustScoreHandler)))).Methods(http.MethodPost)
	api.Handle("/users/recompute-ranks", middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(users.RecomputeRanksHandler)))).Methods(http.MethodPost)
}
