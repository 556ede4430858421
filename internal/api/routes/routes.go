package routes

import (
	"pharma-wms-api-server/internal/api/handlers"
	"pharma-wms-api-server/internal/api/middleware"
	"pharma-wms-api-server/internal/requisition"
	"pharma-wms-api-server/internal/s3"
	"pharma-wms-api-server/internal/shipment"
	"pharma-wms-api-server/internal/socket"
	"pharma-wms-api-server/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps bundles everything the router hands to the handlers.
type Deps struct {
	DB                 *mongo.Database
	RequisitionService *requisition.Service
	ShipmentService    *shipment.Service
	CatalogStore       *storage.CatalogStore
	BranchStore        *storage.BranchStore
	NotificationStore  *storage.NotificationStore
	Hub                *socket.Hub
	S3Uploader         *s3.Uploader
	ExposeMetrics      bool
}

func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	userHandler := &handlers.UserHandler{DB: deps.DB}
	requisitionHandler := &handlers.RequisitionHandler{
		Service:       deps.RequisitionService,
		Catalog:       deps.CatalogStore,
		Notifications: deps.NotificationStore,
	}
	warehouseHandler := &handlers.WarehouseHandler{Service: deps.RequisitionService}
	catalogHandler := &handlers.CatalogHandler{Store: deps.CatalogStore}
	shipmentHandler := &handlers.ShipmentHandler{
		Service:    deps.ShipmentService,
		Branches:   deps.BranchStore,
		S3Uploader: deps.S3Uploader,
	}
	branchHandler := &handlers.BranchHandler{Store: deps.BranchStore}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub}

	if deps.ExposeMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Administration, admin role only.
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("admin"))
		{
			admin.POST("/users", userHandler.CreateUser)

			branches := admin.Group("/branches")
			{
				branches.POST("/", branchHandler.CreateBranch)
				branches.GET("/", branchHandler.GetAllBranches)
				branches.GET("/:id", branchHandler.GetBranchByID)
				branches.PUT("/:id", branchHandler.UpdateBranch)
			}
		}

		// Warehouse operations: review and process requisitions, manage the
		// catalog.
		warehouse := apiV1.Group("/warehouse")
		warehouse.Use(middleware.Authenticate())
		warehouse.Use(middleware.Authorize("warehouse", "admin"))
		{
			requisitions := warehouse.Group("/requisitions")
			{
				requisitions.GET("/", warehouseHandler.GetAllRequisitions)
				requisitions.GET("/:id", requisitionHandler.GetRequisition)
				requisitions.GET("/:id/availability", warehouseHandler.GetAvailability)
				requisitions.POST("/:id/approve", warehouseHandler.ApproveRequisition)
				requisitions.POST("/:id/reject", warehouseHandler.RejectRequisition)
				requisitions.POST("/:id/fulfill", warehouseHandler.FulfillRequisition)
			}

			catalog := warehouse.Group("/catalog")
			{
				catalog.POST("/", catalogHandler.CreateItem)
				catalog.GET("/", catalogHandler.ListItems)
				catalog.POST("/receive", catalogHandler.ReceiveStock)
			}

			shipments := warehouse.Group("/shipments")
			{
				shipments.GET("/:id", shipmentHandler.GetShipment)
				shipments.GET("/:id/waybill", shipmentHandler.GetWaybill)
			}
		}

		// Branch operations: submit and track requisitions, receive
		// shipments.
		branch := apiV1.Group("/branch")
		branch.Use(middleware.Authenticate())
		branch.Use(middleware.Authorize("branch"))
		{
			requisitions := branch.Group("/requisitions")
			{
				requisitions.POST("/", requisitionHandler.CreateRequisition)
				requisitions.GET("/", requisitionHandler.GetMyRequisitions)
				requisitions.GET("/:id", requisitionHandler.GetRequisition)
			}

			shipments := branch.Group("/shipments")
			{
				shipments.GET("/", shipmentHandler.GetMyShipments)
				shipments.GET("/:id", shipmentHandler.GetShipment)
				shipments.GET("/:id/waybill", shipmentHandler.GetWaybill)
				shipments.POST("/:id/deliver", shipmentHandler.ConfirmDelivery)
				shipments.POST("/:id/delivery-photo", shipmentHandler.UploadDeliveryPhoto)
			}

			notifications := branch.Group("/notifications")
			{
				notifications.GET("/", requisitionHandler.GetMyNotifications)
				notifications.POST("/read", requisitionHandler.MarkNotificationsRead)
			}
		}
	}

	return router
}
