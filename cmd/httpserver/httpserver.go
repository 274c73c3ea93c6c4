// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mae-finance/wallet/internal/ledgerdelivery"
	"github.com/mae-finance/wallet/internal/ledgerevents"
	"github.com/mae-finance/wallet/internal/ledgerrepo"
	"github.com/mae-finance/wallet/internal/ledgerservice"
	"github.com/mae-finance/wallet/internal/middleware"
	"github.com/mae-finance/wallet/internal/tipservice"
	"github.com/mae-finance/wallet/internal/userdelivery"
	"github.com/mae-finance/wallet/internal/userrepo"
	"github.com/mae-finance/wallet/internal/userservice"
	"github.com/mae-finance/wallet/pkg/configpkg"
	"github.com/mae-finance/wallet/pkg/moneypkg"
	"github.com/mae-finance/wallet/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	grant, err := moneypkg.FromString(config.SignupGrant)
	if err != nil {
		return nil, errors.New("cannot parse signup grant")
	}

	var events ledgerservice.EventPublisher = ledgerevents.NoopPublisher{}
	if len(config.KafkaBrokers) > 0 {
		events = ledgerevents.NewKafkaPublisher(config.KafkaBrokers, config.KafkaTopic)
	}

	ledgerService := ledgerservice.New(ledgerRepo, events, grant, config.ApplyMaxAttempts)
	userService := userservice.New(userRepo, ledgerService)
	advisor := tipservice.New(tipservice.NewHTTPGenerator(config.AdvisorURL, config.AdvisorTimeout))

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, advisor)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.PATCH("/users", userHandler.UpdateFullName)

	authRoutes.GET("/account", ledgerHandler.GetAccount)
	authRoutes.GET("/transactions", ledgerHandler.ListTransactions)
	authRoutes.POST("/transfers", ledgerHandler.CreateTransfer)
	authRoutes.POST("/payments/scan", ledgerHandler.ScanPayment)
	authRoutes.GET("/tips", ledgerHandler.GetTip)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
