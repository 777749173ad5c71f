package app

import (
	"context"
	"net/http"

	"apartment-chores-go/internal/config"
	"apartment-chores-go/internal/db"
	apartmentdomain "apartment-chores-go/internal/domain/apartment"
	choredomain "apartment-chores-go/internal/domain/chore"
	userdomain "apartment-chores-go/internal/domain/user"
	"apartment-chores-go/internal/identity"
	"apartment-chores-go/internal/repository/inmemory"
	apartmentrepo "apartment-chores-go/internal/repository/postgres/apartment"
	chorerepo "apartment-chores-go/internal/repository/postgres/chore"
	userrepo "apartment-chores-go/internal/repository/postgres/user"
	"apartment-chores-go/internal/transport/httpserver"
	"apartment-chores-go/internal/transport/httpserver/handler"
	"apartment-chores-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	log.Info("app: loading eligibility rules", "path", cfg.RulesPath)
	rules, err := choredomain.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	var apartmentCache apartmentdomain.Cache
	if cfg.ApartmentCache.Enabled {
		apartmentCache = inmemory.NewInMemoryApartmentCache()
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	apartments := apartmentdomain.NewService(apartmentrepo.NewPostgres(dbConn), apartmentCache, cfg.ApartmentCache.TTL, log)
	chores := choredomain.NewService(chorerepo.NewPostgres(dbConn), rules)
	idp := identity.NewClient(cfg.Auth)

	handlers := handler.New(users, apartments, chores, idp, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, ensurerFunc(users.EnsureUser), log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensurerFunc adapts the user service to the auth middleware, which only
// cares whether the document exists after the call.
type ensurerFunc func(ctx context.Context, userID, email, displayName string) (*userdomain.User, error)

func (f ensurerFunc) EnsureUser(ctx context.Context, userID, email, displayName string) error {
	_, err := f(ctx, userID, email, displayName)
	return err
}
