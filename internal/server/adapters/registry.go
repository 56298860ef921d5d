package adapters

import (
	"github.com/gin-gonic/gin"

	"github.com/toyz/addasync/internal/errors"
	"github.com/toyz/addasync/internal/server"
	"github.com/toyz/addasync/internal/utils"
)

// Factory creates a ready to use web server
type Factory func() server.WebServer

var frameworks = utils.NewRegistry[string, Factory]("framework")

func init() {
	gin.SetMode(gin.ReleaseMode)

	mustRegister("gin", func() server.WebServer { return NewDefaultGinAdapter() })
	mustRegister("echo", func() server.WebServer { return NewDefaultEchoAdapter() })
	mustRegister("fiber", func() server.WebServer { return NewDefaultFiberAdapter() })
}

func mustRegister(name string, factory Factory) {
	if err := frameworks.Register(name, factory); err != nil {
		panic(err)
	}
}

// New creates the web server for the named framework
func New(framework string) (server.WebServer, error) {
	factory, err := frameworks.GetOrError(framework)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "cannot create server", err).
			WithSuggestion("Set server.framework to one of gin, echo or fiber")
	}
	return factory(), nil
}

// Frameworks lists the supported framework names
func Frameworks() []string {
	return frameworks.Keys()
}
