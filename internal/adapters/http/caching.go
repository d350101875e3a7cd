package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern. Navdata only changes at
		// AIRAC cycle boundaries, so lookups can cache aggressively.
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/fixes/search"):
			ttl = "public, max-age=300" // 5 min for search results

		case strings.HasPrefix(path, "/v1/fixes/nearby"):
			ttl = "public, max-age=300" // 5 min for location queries

		case strings.HasPrefix(path, "/v1/fixes/") || strings.HasPrefix(path, "/v1/points/"):
			ttl = "public, max-age=3600" // 1 hour for single fix

		case strings.HasPrefix(path, "/v1/airways/"):
			ttl = "public, max-age=3600" // 1 hour for airway data

		case strings.HasPrefix(path, "/v1/airports/"):
			ttl = "public, max-age=3600" // 1 hour for airport data

		case strings.HasPrefix(path, "/v1/procedures/"):
			ttl = "public, max-age=3600" // 1 hour for SID/STAR data

		case path == "/v1/catalog/status":
			ttl = "public, max-age=60" // Cycle stats: 1 min

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300" // 5 min default for API endpoints
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
