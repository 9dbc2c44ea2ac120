package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/applicants"
	"docreview-backend/internal/doctypes"
	"docreview-backend/internal/documents"
	"docreview-backend/internal/ocr"
	"docreview-backend/internal/queue"
	redisclient "docreview-backend/internal/shared/cache/redis"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/server"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/storage/db"
	"docreview-backend/internal/shared/storage/dynamo"
	"docreview-backend/internal/shared/storage/object"
	localstore "docreview-backend/internal/shared/storage/object/local"
	s3store "docreview-backend/internal/shared/storage/object/s3"
	"docreview-backend/internal/uploads"
	"docreview-backend/internal/verification"
)

// App holds shared dependencies and the HTTP router built from them.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Redis               *redisclient.Client
	Store               object.ObjectStore
	Presigner           object.Presigner
	Queue               queue.Client
	OCR                 ocr.Extractor
	Catalog             doctypes.Catalog
	DocumentsRepo       documents.DocumentsRepo
	ApplicantsRepo      applicants.Repo
	DocumentsService    *documents.Service
	ApplicantsService   *applicants.Service
	VerificationService *verification.Service
	DocumentsHandler    *documents.Handler
	ApplicantsHandler   *applicants.Handler
	VerifyHandler       *verification.Handler
	UploadsHandler      *uploads.Handler
	DocTypesHandler     *doctypes.Handler
}

type repos struct {
	docs documents.DocumentsRepo
	apps applicants.Repo
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	catalog, err := doctypes.Load(cfg.DocTypesFile)
	if err != nil {
		return nil, err
	}
	app.Catalog = catalog

	sqlDB, rp, err := buildDocumentDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	app.DocumentsRepo = rp.docs
	app.ApplicantsRepo = rp.apps

	if err := buildStore(ctx, app); err != nil {
		return nil, err
	}

	rdb, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Redis = rdb

	q, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Queue = q
	app.OCR = buildOCR(cfg)

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       cfg,
		Documents:    app.DocumentsHandler,
		Applicants:   app.ApplicantsHandler,
		Verification: app.VerifyHandler,
		Uploads:      app.UploadsHandler,
		DocTypes:     app.DocTypesHandler,
		Limiter:      buildLimiter(app.Redis),
		Checks:       buildChecks(app),
		StaticDir:    staticDir(app),
	})

	return app, nil
}

func buildDocumentDB(ctx context.Context, cfg config.Config) (*sql.DB, repos, error) {
	switch cfg.DocumentDB {
	case "memory":
		log.Printf("bootstrap: DOCUMENT_DB=memory; using in-memory repositories")
		return nil, memoryRepos(), nil
	case "dynamodb":
		client, err := dynamo.NewClient(ctx, cfg.AWSRegion, cfg.AWSEndpointURL)
		if err != nil {
			return nil, repos{}, err
		}
		if config.IsDevLike(cfg.Env) {
			for _, table := range []string{cfg.DynamoDocsTable, cfg.DynamoAppsTable} {
				if _, err := dynamo.EnsureTable(ctx, client, table); err != nil {
					log.Printf("bootstrap: ensure dynamodb table %s: %v", table, err)
				}
			}
		}
		return nil, repos{
			docs: &documents.DynamoRepo{DB: client, Table: cfg.DynamoDocsTable},
			apps: &applicants.DynamoRepo{DB: client, Table: cfg.DynamoAppsTable},
		}, nil
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, repos{}, err
	}
	if sqlDB == nil {
		return nil, memoryRepos(), nil
	}
	return sqlDB, repos{
		docs: &documents.PGRepo{DB: sqlDB},
		apps: &applicants.PGRepo{DB: sqlDB},
	}, nil
}

func memoryRepos() repos {
	return repos{docs: documents.NewMemoryRepo(), apps: applicants.NewMemoryRepo()}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if config.IsDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Endpoint:      cfg.AWSEndpointURL,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			KMSKeyID:      cfg.SSEKMSKeyID,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return err
		}
		app.Store = store
		app.Presigner = store
	default:
		app.Store = localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL+"/uploads")
	}
	return nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redisclient.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	client, err := redisclient.New(dialCtx, cfg.RedisURL, redisclient.Options{
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unavailable; using in-process rate limiting: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.AWSEndpointURL, cfg.SQSQueueURL)
}

func buildOCR(cfg config.Config) ocr.Extractor {
	chain := ocr.Chain{ocr.PDFExtractor{}}
	if endpoint := strings.TrimSpace(cfg.OCREndpoint); endpoint != "" {
		chain = append(chain, ocr.NewHTTPExtractor(endpoint, cfg.OCRTimeout))
	}
	return chain
}

func buildLimiter(rdb *redisclient.Client) middleware.Limiter {
	if rdb == nil {
		return nil
	}
	return middleware.NewRedisRateLimiter(rdb.Client, "")
}

func buildChecks(app *App) map[string]server.HealthCheck {
	checks := map[string]server.HealthCheck{}
	if app.DB != nil {
		sqlDB := app.DB
		checks["db"] = func(ctx context.Context) error { return db.Ping(ctx, sqlDB, time.Second) }
	}
	if app.Redis != nil {
		checks["redis"] = app.Redis.Health
	}
	return checks
}

func staticDir(app *App) string {
	if local, ok := app.Store.(*localstore.Store); ok {
		return local.BaseDir()
	}
	return ""
}

func buildServices(app *App) error {
	docSvc := &documents.Service{Store: app.Store, Repo: app.DocumentsRepo}
	appSvc := &applicants.Service{Repo: app.ApplicantsRepo}
	verifySvc := &verification.Service{
		Documents:  docSvc,
		Applicants: appSvc,
		OCR:        app.OCR,
		Queue:      app.Queue,
	}

	app.DocumentsService = docSvc
	app.ApplicantsService = appSvc
	app.VerificationService = verifySvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.ApplicantsHandler = applicants.NewHandler(appSvc)
	app.VerifyHandler = verification.NewHandler(verifySvc)
	app.UploadsHandler = uploads.NewHandler(app.Presigner)
	app.DocTypesHandler = doctypes.NewHandler(app.Catalog)

	if app.DocumentsHandler == nil || app.ApplicantsHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

// Close releases pooled connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}
