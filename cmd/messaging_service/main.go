package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	auditapp "customs_clearance_service/internal/audit/app"
	auditrepo "customs_clearance_service/internal/audit/repository"
	complianceapp "customs_clearance_service/internal/compliance/app"
	identityapp "customs_clearance_service/internal/identity/app"
	identityrepo "customs_clearance_service/internal/identity/repository"
	"customs_clearance_service/internal/messaging/app"
	"customs_clearance_service/internal/messaging/repository"
	"customs_clearance_service/internal/messaging/router"
	shipmentapp "customs_clearance_service/internal/shipment/app"
	shipmentrepo "customs_clearance_service/internal/shipment/repository"
	"customs_clearance_service/pkg/config"
	"customs_clearance_service/pkg/database"
	"customs_clearance_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MessagingService, config.EnvConfig.MessagingLogPath)
	cfg := config.LoadConfig[config.Messaging](config.EnvConfig.MessagingService, config.EnvConfig.MessagingYAMLPath)

	ctx := context.Background()

	// Mongo holds messages, shipments and notifications
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval),
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// Redis carries the room backplane
	redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// Postgres holds user accounts (pgx) and the audit trail (gorm)
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pgPool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect postgres err : %v", err))
	}
	defer pgPool.Close()

	gormDB, err := gorm.Open(postgres.Open(pgURI), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("open gorm err : %v", err))
	}

	// MinIO holds attachment binaries
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	// Kafka streams audit events; the service still runs without it
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.AuditTopic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	})
	if err != nil {
		logger.Log.Warn(fmt.Sprintf("kafka writer unavailable, audit events disabled: %v", err))
		kafkaWriter = nil
	}
	if kafkaWriter != nil {
		defer kafkaWriter.Close()
	}

	// RabbitMQ queues out-of-band sms/email alerts
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    cfg.RabbitMQ.URL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect rabbitmq err : %v", err))
	}
	defer rabbitConn.Close()

	rabbitCh, err := database.GetRabbitMQChannelWithRetry(rabbitConn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("rabbitmq channel err : %v", err))
	}

	// repositories
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	shipRepo := repository.NewMongoShipmentRepository(mongo.Database)
	notifRepo := repository.NewMongoNotificationRepository(mongo.Database)
	backplane := repository.NewRedisBackplane(redisClient)
	dispatcher := repository.NewRabbitAlertDispatcher(database.NewRabbitRepository(rabbitCh), cfg.RabbitMQ.AlertExchange)

	userRepo := identityrepo.NewUserRepository(pgPool)
	workflowShipRepo := shipmentrepo.NewMongoShipmentRepository(mongo.Database)
	auditRepo, err := auditrepo.NewAuditRepository(gormDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("audit migrate err : %v", err))
	}

	// use cases
	identityUC := identityapp.NewIdentityUseCase(userRepo)
	auditUC := auditapp.NewAuditUseCase(auditRepo, kafkaWriter)
	roomUC := app.NewRoomUseCase(shipRepo)
	messageUC := app.NewMessageUseCase(msgRepo, shipRepo, roomUC, identityUC, auditUC)
	systemUC := app.NewSystemMessageUseCase(msgRepo, backplane)
	notificationUC := app.NewNotificationUseCase(notifRepo, dispatcher)
	attachmentUC := app.NewAttachmentUseCase(minioClient, roomUC)
	statusUC := shipmentapp.NewStatusUseCase(workflowShipRepo, shipmentrepo.NewMockNICISClient(), systemUC, auditUC)
	anchorUC := shipmentapp.NewAnchorUseCase(workflowShipRepo, auditUC)
	precheckUC := complianceapp.NewPrecheckUseCase(workflowShipRepo, systemUC)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MessagingLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// auth routes mint tokens, so they mount before the token middleware
	identityapp.NewIdentityRestHandler(identityUC).RegisterRoutes(r)

	wsHandler := app.NewMessagingWebsocketHandler(roomUC, messageUC, notificationUC, backplane)
	restHandler := app.NewMessagingRestHandler(messageUC, attachmentUC, notificationUC)
	router.RegisterRoutes(r, wsHandler, restHandler, identityUC)

	shipmentapp.NewShipmentRestHandler(statusUC, anchorUC).RegisterRoutes(r)
	complianceapp.NewComplianceRestHandler(precheckUC).RegisterRoutes(r)
	auditapp.NewAuditRestHandler(auditUC).RegisterRoutes(r)

	port := ":" + cfg.Port
	log.Printf("Messaging Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
