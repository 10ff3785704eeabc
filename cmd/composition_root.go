package cmd

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	httpserver "foodfast/internal/adapters/in/http"
	"foodfast/internal/adapters/out/filestore"
	"foodfast/internal/adapters/out/imageproc"
	"foodfast/internal/adapters/out/postgres"
	"foodfast/internal/adapters/out/postgres/orderrepo"
	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/application/usecases/queries"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/services"
	"foodfast/internal/core/ports"
	"foodfast/internal/jobs"
	"foodfast/internal/pkg/bus"
	"foodfast/internal/realtime"
)

// CompositionRoot wires adapters, handlers, and background jobs together.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	eventBus  *bus.Bus
	locations *realtime.LocationStream
	relay     *realtime.ChatRelay
	publisher *realtime.Publisher

	storage    ports.ObjectStorage
	jobManager *jobs.JobManager
}

// NewCompositionRoot builds the full object graph from configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	storage, err := filestore.NewDiskStorage(config.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	processor, err := imageproc.NewResizer(storage, config.MaxImageDimension, logger)
	if err != nil {
		return nil, fmt.Errorf("init image processor: %w", err)
	}

	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		eventBus:   bus.New(),
		storage:    storage,
	}

	// order state lookups for the live surfaces bypass the unit of work;
	// they are read-only and need no transaction
	orderReader := orderrepo.NewGormOrderRepository(gormDB, noopTracker{})
	root.locations = realtime.NewLocationStream(root.eventBus, orderReader)
	root.publisher = realtime.NewPublisher(root.eventBus, root.locations)
	root.relay = realtime.NewChatRelay(root.eventBus, root.CreateMarkMessageDeliveredCommandHandler())

	// the requeue handler wakes the pool, the pool runs the process
	// handler; the relay breaks the construction cycle between them
	wake := &wakeRelay{}
	root.jobManager = jobs.NewJobManager(
		root.CreateProcessImageJobCommandHandler(processor),
		commands.NewRequeueStaleJobsCommandHandler(root.jobUoWFactory(), wake),
		config.ImageWorkerCount,
		config.ImagePollInterval,
		config.StaleJobThreshold,
		config.StaleSweepSchedule,
		logger,
	)
	wake.target = root.jobManager.WorkerPool()

	return root, nil
}

// JobManager exposes the background job coordinator for lifecycle control.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// CreateHTTPServer assembles the REST and SSE surface.
func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	orderReader := orderrepo.NewGormOrderRepository(c.gormDB, noopTracker{})
	streams := httpserver.NewStreams(
		c.eventBus,
		c.locations,
		c.relay,
		orderReader,
		c.CreateGetJobStatusQueryHandler(),
	)

	return httpserver.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateAssignDriverCommandHandler(),
		c.CreateSendMessageCommandHandler(),
		c.CreateSubmitUploadCommandHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateGetChatHistoryQueryHandler(),
		c.CreateGetJobStatusQueryHandler(),
		streams,
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(
		c.orderUoWFactory(),
		services.NewManualAssignmentPolicy(),
		c.publisher,
	)
}

func (c *CompositionRoot) CreateSendMessageCommandHandler() commands.SendMessageCommandHandler {
	return commands.NewSendMessageCommandHandler(c.chatUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkMessageDeliveredCommandHandler() commands.MarkMessageDeliveredCommandHandler {
	return commands.NewMarkMessageDeliveredCommandHandler(c.chatUoWFactory())
}

func (c *CompositionRoot) CreateSubmitUploadCommandHandler() commands.SubmitUploadCommandHandler {
	return commands.NewSubmitUploadCommandHandler(
		c.jobUoWFactory(),
		c.storage,
		c.jobManager.WorkerPool(),
	)
}

func (c *CompositionRoot) CreateProcessImageJobCommandHandler(processor ports.ImageProcessor) commands.ProcessImageJobCommandHandler {
	return commands.NewProcessImageJobCommandHandler(c.jobUoWFactory(), processor, c.publisher)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetChatHistoryQueryHandler() queries.GetChatHistoryQueryHandler {
	return queries.NewGetChatHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetJobStatusQueryHandler() queries.GetJobStatusQueryHandler {
	return queries.NewGetJobStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) chatUoWFactory() commands.ChatUoWFactory {
	return FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

// noopTracker satisfies the repositories' aggregate tracking hook for
// read-only use outside a unit of work.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// wakeRelay defers the notifier target so handlers created before the worker
// pool still reach it.
type wakeRelay struct {
	target ports.JobNotifier
}

func (w *wakeRelay) Wake() {
	if w.target != nil {
		w.target.Wake()
	}
}
