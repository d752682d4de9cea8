package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/cinelist/internal/handler"
	"github.com/user/cinelist/internal/middleware"
	"github.com/user/cinelist/internal/utils"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, users middleware.UserLoader) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// ==================== 认证 ====================
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(users, h.Config.AppSecret))
	{
		authed.GET("/user", h.CurrentUser)

		// ==================== 档案 ====================
		profiles := authed.Group("/profiles")
		{
			profiles.GET("", h.ListProfiles)
			profiles.POST("", h.CreateProfile)
			profiles.GET("/active", h.GetActiveProfile)
			profiles.POST("/active", h.SetActiveProfile)
			profiles.GET("/:id", h.GetProfile)
			profiles.PUT("/:id", h.UpdateProfile)
			profiles.DELETE("/:id", h.DeleteProfile)
		}

		// ==================== 内容 ====================
		content := authed.Group("/content")
		{
			content.GET("/newest", h.Newest)
			content.GET("/popular", h.Popular)
			content.GET("/movies", h.Movies)
			content.GET("/tvshows", h.TVShows)
			content.GET("/search", h.SearchContent)
			content.GET("/id/:id", h.ContentByID)
			content.GET("/:type/:tmdbId", h.ResolveContent)
			content.GET("/:type/:tmdbId/details", h.ContentDetails)
		}

		// ==================== 片单 ====================
		mylist := authed.Group("/mylist")
		{
			mylist.GET("", h.MyList)
			mylist.POST("", h.AddToMyList)
			mylist.GET("/:profileId", h.ProfileList)
			mylist.GET("/:profileId/check/:tmdbId", h.CheckMyList)
			mylist.DELETE("/:profileId/:tmdbId", h.RemoveFromMyList)
		}

		// ==================== 评论 ====================
		reviews := authed.Group("/reviews")
		{
			reviews.POST("", h.CreateReview)
			reviews.GET("/content/:contentId", h.ContentReviews)
			reviews.GET("/profile/:profileId", h.ProfileReviews)
			reviews.PUT("/:id", h.UpdateReview)
			reviews.DELETE("/:id", h.DeleteReview)
		}

		// ==================== 管理后台 ====================
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/logs", h.AdminLogs)
			admin.GET("/users", h.AdminUsers)
			admin.PATCH("/users/:id", h.AdminSetUserRole)
			admin.POST("/content", h.AdminAddContent)
			admin.DELETE("/content/:id", h.AdminDeleteContent)
			admin.GET("/stats", h.AdminStats)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "接口不存在")
	})
}
