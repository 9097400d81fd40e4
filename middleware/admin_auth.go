package middleware

import (
	"net/http"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/utils"
)

// AdminMiddleware gates admin-only routes. It runs after AuthMiddleware and
// re-checks the role against the users table so a stale token can't outlive
// a demotion.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r)
		if !ok || uid == 0 {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}

		if utils.GetUserRole(r) != models.RoleAdmin {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Admin access required",
			})
			return
		}

		var user models.User
		if err := database.DB.Select("id, role").First(&user, uid).Error; err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}
		if user.Role != models.RoleAdmin {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Admin access required",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
