package routes

import (
	"github.com/Psychotichub/report/controllers"
	"github.com/Psychotichub/report/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{

		// ================= AUTH =================
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/logout", controllers.Logout)

			authed := auth.Group("/", middlewares.Authenticate())
			{
				authed.GET("/me", controllers.GetCurrentUser)
				authed.GET("/current-user", controllers.GetCurrentUser)
				authed.GET("/users", middlewares.RequireAdmin(), controllers.GetAllUsers)
				authed.GET("/users/recent", controllers.GetUsers)
				authed.GET("/db-status", controllers.GetDatabaseStatus)
			}
		}

		// ================= SITE USER APP =================
		// Everything below runs inside the caller's resolved tenant.
		user := api.Group("/user", middlewares.Authenticate(), middlewares.RequireSiteAccess())
		{
			materials := user.Group("/materials")
			{
				materials.GET("/", controllers.GetMaterials)
				materials.POST("/", controllers.AddMaterial)
				materials.PUT("/", controllers.UpdateMaterial)
				materials.DELETE("/:materialName", controllers.DeleteMaterial)
				materials.GET("/exists/:materialName", controllers.CheckMaterialExists)
				materials.GET("/search/:materialName", controllers.SearchMaterial)
			}

			daily := user.Group("/daily-reports")
			{
				daily.GET("/", controllers.GetDailyReports)
				daily.POST("/", controllers.AddDailyReports)
				daily.PUT("/:id", controllers.UpdateDailyReport)
				daily.DELETE("/:id", controllers.DeleteDailyReport)
				daily.GET("/date/:date", controllers.GetDailyReportsByDate)
				daily.GET("/range", controllers.GetDailyReportsByDateRange)
			}

			received := user.Group("/received")
			{
				received.GET("/", controllers.GetReceivedItems)
				received.POST("/", controllers.AddReceivedItems)
				received.PUT("/:id", controllers.UpdateReceivedItem)
				received.DELETE("/:id", controllers.DeleteReceivedItem)
				received.GET("/date/:date", controllers.GetReceivedItemsByDate)
				received.GET("/range", controllers.GetReceivedItemsByDateRange)
			}

			totals := user.Group("/total-prices")
			{
				totals.GET("/", controllers.GetTotalPrices)
				totals.POST("/", controllers.AddTotalPrices)
				totals.PUT("/:id", controllers.UpdateTotalPrice)
				totals.DELETE("/:id", controllers.DeleteTotalPrice)
				totals.GET("/date/:date", controllers.GetTotalPricesByDate)
				totals.GET("/range", controllers.GetTotalPricesByDateRange)
				// Prices the submitted usage and persists the rows in one call.
				totals.POST("/calculate", controllers.AddTotalPrices)
			}
		}

		// ================= MANAGER APP =================
		manager := api.Group("/manager",
			middlewares.Authenticate(), middlewares.RequireManagerAccess(), middlewares.RequireSiteAccess())
		{
			site := manager.Group("/site")
			{
				site.POST("/calculate-total-prices", controllers.CalculateSiteTotalPrices)
				site.GET("/materials", controllers.GetManagedSiteMaterials)
				site.GET("/statistics", controllers.GetSiteStatistics)
				site.GET("/activity-logs", controllers.GetSiteActivityLogs)
			}
		}

		// ================= ADMIN APP =================
		admin := api.Group("/admin",
			middlewares.Authenticate(), middlewares.RequireAdmin(), middlewares.RequireSiteAccess())
		{
			site := admin.Group("/site")
			{
				site.GET("/users", controllers.GetSiteUsers)
				site.GET("/materials", controllers.GetSiteMaterials)
				site.GET("/daily-reports", controllers.GetSiteDailyReports)
				site.GET("/received", controllers.GetSiteReceivedItems)
				site.GET("/total-prices", controllers.GetSiteTotalPrices)
				site.POST("/calculate-total-prices", controllers.CalculateSiteTotalPrices)
				site.GET("/statistics", controllers.GetAdminSiteStatistics)
				site.GET("/user-data/:username", controllers.GetUserData)
			}
		}

		// ================= SETTINGS =================
		settings := api.Group("/settings", middlewares.Authenticate(), middlewares.RequireSiteAccess())
		{
			settings.GET("/user-site-details", controllers.GetUserSiteDetails)
		}
	}
}
