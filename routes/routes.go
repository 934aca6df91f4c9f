package routes

import (
	"log"
	"os"

	controller "leadflow/controllers"
	"leadflow/lifecycle"
	"leadflow/middleware"
	"leadflow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, hub *lifecycle.Hub) {
	coordinator := lifecycle.NewCoordinator(db, log.New(os.Stdout, "LIFECYCLE: ", log.LstdFlags), hub)
	scheduler := lifecycle.NewScheduler(db, log.New(os.Stdout, "SCHEDULER: ", log.LstdFlags), hub)

	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags), coordinator)
	clientController := controller.NewClientController(db, log.New(os.Stdout, "CLIENT: ", log.LstdFlags), coordinator)
	droppedController := controller.NewDroppedLeadController(db, log.New(os.Stdout, "DROPPED: ", log.LstdFlags), coordinator)
	dealController := controller.NewDealController(db, log.New(os.Stdout, "DEAL: ", log.LstdFlags), scheduler)
	bulkController := controller.NewBulkController(db, log.New(os.Stdout, "BULK: ", log.LstdFlags), coordinator)
	activityController := controller.NewActivityController(db, log.New(os.Stdout, "ACTIVITY: ", log.LstdFlags))
	proposalController := controller.NewProposalController(db, log.New(os.Stdout, "PROPOSAL: ", log.LstdFlags))
	surveyController := controller.NewSurveyController(db, log.New(os.Stdout, "SURVEY: ", log.LstdFlags))
	dashboardController := controller.NewDashboardController(db, log.New(os.Stdout, "DASHBOARD: ", log.LstdFlags))

	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Leads
	leads := api.Group("/leads")
	leads.Post("/", leadController.CreateLead)
	leads.Get("/", leadController.GetLeads)
	leads.Get("/:id", leadController.GetLead)
	leads.Put("/:id", leadController.UpdateLead)
	leads.Post("/:id/promote", leadController.PromoteLead)
	leads.Post("/:id/drop", leadController.DropLead)

	// Clients
	clients := api.Group("/clients")
	clients.Get("/", clientController.GetClients)
	clients.Get("/:id", clientController.GetClient)
	clients.Post("/:id/demote", clientController.DemoteClient)

	// Dropped leads
	dropped := api.Group("/dropped-leads")
	dropped.Get("/", droppedController.GetDroppedLeads)
	dropped.Post("/:id/reactivate", droppedController.ReactivateLead)
	dropped.Post("/bulk-reactivate",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		middleware.BulkRateLimiter(),
		droppedController.BulkReactivate)

	// Deals
	deals := api.Group("/deals")
	deals.Post("/", dealController.CreateDeal)
	deals.Get("/", dealController.GetDeals)
	deals.Put("/:id", dealController.UpdateDeal)
	deals.Put("/:id/stage", dealController.SetDealStage)
	deals.Put("/:id/effective-date", dealController.SetDealEffectiveDate)

	// Dependent records
	activities := api.Group("/activities")
	activities.Post("/", activityController.CreateActivity)
	activities.Get("/", activityController.GetActivities)

	proposals := api.Group("/proposals")
	proposals.Post("/", proposalController.CreateProposal)
	proposals.Get("/", proposalController.GetProposals)
	proposals.Put("/:id/status", proposalController.UpdateProposalStatus)

	surveys := api.Group("/surveys")
	surveys.Post("/", surveyController.CreateSurvey)
	surveys.Get("/", surveyController.GetSurveys)

	// Bulk field updates
	api.Post("/bulk/leads",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		middleware.BulkRateLimiter(),
		bulkController.BulkUpdateLeads)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboard.Get("/stats", dashboardController.GetPipelineStats)
	dashboard.Get("/tasks", dashboardController.GetUpcomingTasks)

	// Live pipeline event feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/pipeline", websocket.New(controller.HandlePipelineWS(hub)))
}
