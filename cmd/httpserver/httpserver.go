// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/bank-account/internal/accountdelivery"
	"github.com/go-petr/bank-account/internal/accountrepo"
	"github.com/go-petr/bank-account/internal/accountservice"
	"github.com/go-petr/bank-account/internal/middleware"
	"github.com/go-petr/bank-account/internal/rangedelivery"
	"github.com/go-petr/bank-account/pkg/configpkg"
	"github.com/go-petr/bank-account/pkg/validatorpkg"
)

// Server holds the account registry, handlers router and configuration.
type Server struct {
	Repo   *accountrepo.RepoMem
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("account_number", validatorpkg.ValidAccountNumber)
		if err != nil {
			return nil, errors.New("cannot register account_number validator")
		}
	}

	accountRepo := accountrepo.NewRepoMem()
	accountService := accountservice.New(accountRepo)

	accountHandler := accountdelivery.NewHandler(accountService)
	rangeHandler := rangedelivery.NewHandler()

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:number", accountHandler.Get)
	engine.POST("/accounts/:number/deposit", accountHandler.Deposit)
	engine.POST("/accounts/:number/withdraw", accountHandler.Withdraw)

	engine.GET("/ranges/check", rangeHandler.Check)

	server := &Server{
		Repo:   accountRepo,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
