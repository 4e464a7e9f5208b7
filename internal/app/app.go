package app

import (
	"context"
	"errors"
	"net/http"

	"convert-files-go/internal/config"
	"convert-files-go/internal/db"
	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/internal/repository/inmemory"
	conversionrepo "convert-files-go/internal/repository/postgres/conversion"
	"convert-files-go/internal/transport/httpserver"
	"convert-files-go/internal/transport/httpserver/handler"
	"convert-files-go/migrations"
	"convert-files-go/pkg/logger"
	"gorm.io/gorm"
)

var ErrMigrationsNotSupported = errors.New("migrations require postgres storage")

type storage interface {
	conversiondomain.Repository
	Ping(ctx context.Context) error
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	db         *gorm.DB
	storage    storage
	conversion *conversiondomain.Service
	httpServer *http.Server
}

func New(cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("app: using in-memory storage, data is lost on exit")
		a.storage = inmemory.NewConversionRepository()
	default:
		log.Info("app: initializing database")
		dbConn, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		a.db = dbConn
		a.storage = conversionrepo.NewPostgres(dbConn)
	}

	a.conversion = conversiondomain.NewService(a.storage)
	if cfg.ConvertFileCache.Enabled {
		a.conversion.WithCache(inmemory.NewInMemoryConvertFileCache(), cfg.ConvertFileCache.TTL)
	}

	log.Info("app: initializing router")
	handlers := handler.New(a.storage, a.conversion, log)
	router := httpserver.NewRouter(cfg, handlers, log)
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Conversion() *conversiondomain.Service {
	return a.conversion
}

// Migrate applies the embedded SQL migrations and reports how many ran.
func (a *App) Migrate() (int, error) {
	if a.db == nil {
		return 0, ErrMigrationsNotSupported
	}
	return db.Migrate(a.db, migrations.FS, a.log)
}

func (a *App) Close() error {
	return db.Close(a.db)
}
