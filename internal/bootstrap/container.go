package bootstrap

import (
	"context"
	"log"

	"stlc-manager-be/internal/config"
	"stlc-manager-be/internal/controller"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/pkg/mailer"
	"stlc-manager-be/internal/repository/memory"
	"stlc-manager-be/internal/repository/unitofwork"
	"stlc-manager-be/internal/service"
	"stlc-manager-be/internal/websocket"
	"stlc-manager-be/pkg/backend"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/events"
	pktNats "stlc-manager-be/pkg/nats"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/stlc"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const runReportDurable = "stlc-run-report"

type Container struct {
	// Controllers
	CatalogController   controller.ICatalogController
	WorkspaceController controller.IWorkspaceController
	FileController      controller.IFileController
	PipelineController  controller.IPipelineController
	OutputController    controller.IOutputController
	PromptController    controller.IPromptController
	WsController        controller.IWsController
	LogController       controller.ILogController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	Logger          logger.ILogger

	pubSub     *gochannel.GoChannel
	rdb        *redis.Client
	natsPub    *pktNats.Publisher
	natsSub    *pktNats.Subscriber
	eventObs   *events.Observer
	runReports mailer.IRunReportService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	stlcCatalog := catalog.Default()
	workspaceStore := memory.NewWorkspaceRepository(cfg.Pipeline.WorkspaceTTL)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Pipeline
	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	observers := pipeline.Observers{
		wsHub,
		service.NewOutputArchive(uowFactory, sysLogger),
	}
	var eventObserver *events.Observer
	if natsPub != nil {
		eventObserver = events.NewObserver(natsPub, func(e events.Event, err error) {
			sysLogger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
				"type":  e.EventType(),
				"error": err.Error(),
			})
		})
		observers = append(observers, eventObserver)
	}

	var runReports mailer.IRunReportService
	if cfg.SMTP.Enabled() {
		runReports = mailer.NewRunReportService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.SMTP.ReportEmail,
			sysLogger,
		)
		// Without a bus the mailer listens to the runner directly.
		if natsPub == nil || natsSub == nil {
			observers = append(observers, mailer.NewObserver(runReports))
		}
	}

	runner := pipeline.NewRunner(
		stlcCatalog,
		stlc.NewRegistry(backendClient),
		pipeline.WithStepDelay(cfg.Pipeline.StepDelay),
		pipeline.WithObserver(observers),
	)

	// 5. Services
	workspaceService := service.NewWorkspaceService(workspaceStore, uowFactory, stlcCatalog, cfg.Pipeline.AutoSelectionDefault, sysLogger)
	fileService := service.NewFileService(uowFactory, workspaceService, sysLogger)
	publisherService := service.NewPublisherService(pubSub, cfg.Pipeline.RunTopic)
	runService := service.NewRunService(workspaceService, fileService, publisherService, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Pipeline.RunTopic, runner, workspaceService, fileService, sysLogger)
	promptService := service.NewPromptService(backendClient, workspaceService, sysLogger)
	outputService := service.NewOutputService(uowFactory, workspaceService)

	// 6. Controllers
	return &Container{
		CatalogController:   controller.NewCatalogController(stlcCatalog, promptService),
		WorkspaceController: controller.NewWorkspaceController(workspaceService),
		FileController:      controller.NewFileController(fileService),
		PipelineController:  controller.NewPipelineController(runService),
		OutputController:    controller.NewOutputController(outputService),
		PromptController:    controller.NewPromptController(promptService),
		WsController:        controller.NewWsController(wsHub, workspaceService),
		LogController:       controller.NewLogController(sysLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,

		pubSub:     pubSub,
		rdb:        rdb,
		natsPub:    natsPub,
		natsSub:    natsSub,
		eventObs:   eventObserver,
		runReports: runReports,
	}
}

// Start launches the background workers. They stop when ctx ends.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	if c.natsPub != nil && c.natsSub != nil && c.runReports != nil {
		if err := c.natsSub.Subscribe(ctx, events.TypePipelineFinished, runReportDurable, mailer.EventHandler(c.runReports)); err != nil {
			c.Logger.Error("BOOTSTRAP", "Failed to subscribe run reports", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close waits for running pipelines and releases connections.
func (c *Container) Close() {
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close run queue: %v", err)
	}
	c.ConsumerService.Wait()

	if c.eventObs != nil {
		c.eventObs.Close()
	}

	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
