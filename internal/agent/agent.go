package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	config "github.com/mwantia/notevault/internal/config/server"
	"github.com/mwantia/notevault/pkg/db/store"
	"github.com/mwantia/notevault/pkg/log"
	"github.com/mwantia/notevault/pkg/storage"
	"github.com/mwantia/notevault/pkg/vault"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type NoteVaultAgent struct {
	mutex sync.RWMutex
	wait  sync.WaitGroup

	cfg *config.BaseServerConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	database *store.Database
	ready    bool
	metrics  *http.Server
}

// vaultDependencies is filled by the service container when the Coordinator
// is first resolved.
type vaultDependencies struct {
	Database  *store.Database   `fabric:"inject"`
	AssetLog  log.LoggerService `fabric:"logger:store/assets"`
	RecordLog log.LoggerService `fabric:"logger:store/records"`
	VaultLog  log.LoggerService `fabric:"logger:vault"`
}

func NewAgent(cfg *config.BaseServerConfig) *NoteVaultAgent {
	sc := container.NewServiceContainer()
	sc.AddTagProcessor(log.NewLoggerTagProcessor())

	return &NoteVaultAgent{
		cfg: cfg,
		sc:  sc,
		log: log.NewLoggerService("notevault", cfg.Log),
	}
}

// Services returns the service container. Resolve the Coordinator from it
// after Setup succeeded.
func (nva *NoteVaultAgent) Services() *container.ServiceContainer {
	return nva.sc
}

// Setup connects and migrates the metadata database and resolves the
// Coordinator once, so configuration errors surface here. It is safe to call
// more than once.
func (nva *NoteVaultAgent) Setup(ctx context.Context) error {
	nva.mutex.Lock()
	defer nva.mutex.Unlock()

	if nva.ready {
		return nil
	}

	database, err := nva.openDatabase(ctx)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate metadata database: %w", err)
	}

	if _, err := container.Resolve[*vault.Coordinator](ctx, nva.sc); err != nil {
		return fmt.Errorf("failed to set up coordinator: %w", err)
	}

	nva.ready = true
	return nil
}

// OpenDatabase connects to the metadata database without migrating it or
// building any store. Used by the db commands.
func (nva *NoteVaultAgent) OpenDatabase(ctx context.Context) (*store.Database, error) {
	nva.mutex.Lock()
	defer nva.mutex.Unlock()

	return nva.openDatabase(ctx)
}

func (nva *NoteVaultAgent) openDatabase(ctx context.Context) (*store.Database, error) {
	if nva.database != nil {
		return nva.database, nil
	}

	cfg := store.DatabaseConfig{
		Dialect: nva.cfg.Metadata.Type,
	}
	switch nva.cfg.Metadata.Type {
	case config.MetadataTypePostgres:
		cfg.PostgresDSN = nva.cfg.Metadata.Postgres.DSN
		cfg.MaxOpenConns = 10
	default:
		cfg.SQLitePath = nva.cfg.Metadata.SQLite.Path
	}

	nva.log.Debug("Opening %s metadata database...", cfg.Dialect)
	database, err := store.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := nva.setupServices(database); err != nil {
		return nil, err
	}

	// Resolving runs Database.Init and hands the connection to sc.Cleanup.
	if _, err := container.Resolve[*store.Database](ctx, nva.sc); err != nil {
		if cerr := database.Close(); cerr != nil {
			nva.log.Warn("Failed to close metadata database after failed connect: %v", cerr)
		}
		return nil, fmt.Errorf("failed to connect to metadata database: %w", err)
	}

	nva.database = database
	return database, nil
}

func (nva *NoteVaultAgent) setupServices(database *store.Database) error {
	errs := container.Errors{}

	nva.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[*log.LoggerServiceImpl](nva.sc,
		container.With[log.LoggerService](),
		container.WithInstance(nva.log)))

	nva.log.Debug("Registering 'Database'...")
	errs.Add(container.Register[*store.Database](nva.sc,
		container.AsSingleton(),
		container.WithInstance(database)))

	nva.log.Debug("Registering 'Coordinator'...")
	errs.Add(container.Register[*vaultDependencies](nva.sc,
		container.AsSingleton()))
	errs.Add(container.Register[*vault.Coordinator](nva.sc,
		container.AsSingleton(),
		container.AsFactory(nva.newCoordinator)))

	return errs.Errors()
}

func (nva *NoteVaultAgent) newCoordinator(ctx context.Context, sc *container.ServiceContainer) (any, error) {
	deps, err := container.Resolve[*vaultDependencies](ctx, sc)
	if err != nil {
		return nil, err
	}

	maxFileSize, err := nva.cfg.Limits.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	opts := []store.AssetStoreOption{
		store.WithMaxFileSize(maxFileSize),
	}
	if nva.cfg.Blob.Type == config.BlobTypeMinio {
		nva.log.Debug("Connecting to object store '%s'...", nva.cfg.Blob.Minio.Endpoint)
		objects, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  nva.cfg.Blob.Minio.Endpoint,
			AccessKey: nva.cfg.Blob.Minio.AccessKey,
			SecretKey: nva.cfg.Blob.Minio.SecretKey,
			Bucket:    nva.cfg.Blob.Minio.Bucket,
			UseSSL:    nva.cfg.Blob.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to object store: %w", err)
		}
		opts = append(opts, store.WithObjectStore(objects))
	}

	assets := store.NewAssetStore(deps.Database.DB(), deps.AssetLog, opts...)
	records := store.NewRecordStore(deps.Database.DB(), assets, deps.RecordLog)

	return vault.NewCoordinator(records, assets, deps.VaultLog, vault.Limits{
		MaxFiles:    nva.cfg.Limits.MaxFiles,
		MaxFileSize: maxFileSize,
	}), nil
}

func (nva *NoteVaultAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if err := nva.Setup(ctx); err != nil {
		return err
	}

	if nva.cfg.Metrics.Address != "" {
		nva.serveMetrics()
	}

	nva.log.Info("NoteVault agent started")
	<-ctx.Done()
	nva.log.Info("Shutting down...")

	timeout, err := time.ParseDuration(nva.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 60 seconds if error
		timeout = 60 * time.Second
	}

	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return nva.Close(shutdown)
}

func (nva *NoteVaultAgent) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	nva.metrics = &http.Server{
		Addr:              nva.cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	nva.wait.Add(1)
	go func() {
		defer nva.wait.Done()

		nva.log.Info("Serving metrics on '%s'", nva.cfg.Metrics.Address)
		if err := nva.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			nva.log.Error("Metrics listener failed: %v", err)
		}
	}()
}

// Close stops the metrics listener and cleans up the service container, which
// closes the metadata database. The agent cannot be set up again afterwards.
func (nva *NoteVaultAgent) Close(ctx context.Context) error {
	nva.mutex.Lock()
	defer nva.mutex.Unlock()

	var errs []error
	if nva.metrics != nil {
		if err := nva.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop metrics listener: %w", err))
		}
	}

	if err := nva.sc.Cleanup(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to complete service container cleanup: %w", err))
	}

	nva.wait.Wait()
	return errors.Join(errs...)
}
