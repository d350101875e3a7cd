package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/field15/internal/adapters/postgres"
	"github.com/samirrijal/field15/internal/adapters/valkey"
	"github.com/samirrijal/field15/internal/core/ports"
	"github.com/samirrijal/field15/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Resolver *usecases.ResolverService
	Navdata  *usecases.NavdataService
	Catalog  ports.NavCatalog
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
