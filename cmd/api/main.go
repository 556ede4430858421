package main

import (
	"pharma-wms-api-server/config"
	"pharma-wms-api-server/internal/api/routes"
	"pharma-wms-api-server/internal/auth"
	"pharma-wms-api-server/internal/database"
	"pharma-wms-api-server/internal/ledger"
	"pharma-wms-api-server/internal/requisition"
	"pharma-wms-api-server/internal/s3"
	"pharma-wms-api-server/internal/shipment"
	"pharma-wms-api-server/internal/socket"
	"pharma-wms-api-server/internal/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		logrus.Fatalf("Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		logrus.Fatal("JWT secret is not configured")
	}
	auth.Init(cfg.JWT.Secret, cfg.JWT.Expiration)

	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := database.EnsureIndexes(db); err != nil {
		logrus.Fatalf("Failed to ensure indexes: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		logrus.Fatalf("Failed to seed admin account: %v", err)
	}

	// Stores over Mongo.
	requisitionStore := storage.NewRequisitionStore(db)
	catalogStore := storage.NewCatalogStore(db)
	shipmentStore := storage.NewShipmentStore(db)
	branchStore := storage.NewBranchStore(db)
	notificationStore := storage.NewNotificationStore(db)

	// Notification hub.
	hub := socket.NewHub()
	notifier := socket.NewStatusNotifier(hub, notificationStore)

	// Optional Fabric audit ledger.
	var recorder requisition.Recorder
	if cfg.Ledger.Enabled {
		rec, err := ledger.Connect(cfg.Ledger)
		if err != nil {
			logrus.Fatalf("Failed to connect to audit ledger: %v", err)
		}
		defer rec.Close()
		recorder = rec
	}

	// Optional S3 storage for delivery-proof photos.
	var uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			logrus.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
	}

	// Workflow services.
	shipmentService := shipment.NewService(shipmentStore, catalogStore)
	requisitionService := requisition.NewService(requisitionStore, catalogStore, shipmentService, notifier, recorder)

	router := routes.SetupRouter(routes.Deps{
		DB:                 db,
		RequisitionService: requisitionService,
		ShipmentService:    shipmentService,
		CatalogStore:       catalogStore,
		BranchStore:        branchStore,
		NotificationStore:  notificationStore,
		Hub:                hub,
		S3Uploader:         uploader,
		ExposeMetrics:      cfg.Metrics.Enabled,
	})

	logrus.Infof("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("Failed to run server: %v", err)
	}
}
