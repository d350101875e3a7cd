package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/field15/internal/core/domain"
)

// resolveRequest is the body of POST /v1/routes/resolve and
// POST /v1/routes/flatten.
type resolveRequest struct {
	Route    string           `json:"route"`
	Segments []domain.Segment `json:"segments,omitempty"`
}

// ResolveRouteHandler resolves an ICAO field 15 route string into
// geographic segments.
func ResolveRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Route == "" {
			return errBadRequest(c, "route is required")
		}
		if len(req.Route) > 2000 {
			return errBadRequest(c, "route too long (max 2000 characters)")
		}

		segments, err := deps.Resolver.EnrichRoute(c.Context(), req.Route)
		if err != nil {
			return errDomain(c, err)
		}

		return c.JSON(fiber.Map{
			"route":    req.Route,
			"segments": segments,
			"count":    len(segments),
		})
	}
}

// FlattenRouteHandler returns the deduplicated waypoint sequence of a
// route. The body carries either a route string to resolve first, or
// already-resolved segments to collapse directly.
func FlattenRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		if req.Route != "" {
			points, err := deps.Resolver.FlattenRoute(c.Context(), req.Route)
			if err != nil {
				return errDomain(c, err)
			}
			return c.JSON(fiber.Map{"points": points, "count": len(points)})
		}

		if req.Segments == nil {
			return errBadRequest(c, "route or segments is required")
		}
		points := domain.FlattenSegments(req.Segments)
		return c.JSON(fiber.Map{"points": points, "count": len(points)})
	}
}

// SearchFixesHandler performs fuzzy search on fix designators and names.
func SearchFixesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)

		if deps.Navdata == nil {
			return errUnavailable(c, "search index not available")
		}
		fixes, err := deps.Navdata.Search(c.Context(), query, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		return c.JSON(fixes)
	}
}

// NearbyFixesHandler returns fixes within a radius of a point.
func NearbyFixesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 50000)
		limit := c.QueryInt("limit", 50)

		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat/lon out of range")
		}
		if radius <= 0 || radius > 500000 {
			return errBadRequest(c, "radius must be between 1 and 500000 meters")
		}

		if deps.Navdata == nil {
			return errUnavailable(c, "search index not available")
		}
		fixes, err := deps.Navdata.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fixes)
	}
}

// GetFixHandler returns the catalog fixes published under a name. A
// designator can be shared by several features, so the response is a list.
func GetFixHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if name == "" {
			return errBadRequest(c, "fix name is required")
		}
		if deps.Catalog == nil {
			return errUnavailable(c, "catalog not loaded")
		}

		fixes := deps.Catalog.LookupFix(name)
		if len(fixes) == 0 {
			return errNotFound(c, "fix not found")
		}
		return c.JSON(fixes)
	}
}

// GetAirwayHandler returns the published variants of an airway with their
// segments.
func GetAirwayHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		designator := c.Params("designator")
		if designator == "" {
			return errBadRequest(c, "airway designator is required")
		}

		// Catalog first; the persisted cycle answers when the API runs
		// without a loaded catalog.
		if deps.Catalog != nil {
			variants := deps.Catalog.LookupAirway(designator)
			if len(variants) == 0 {
				return errNotFound(c, "airway not found")
			}
			c.Set("Cache-Control", "public, max-age=3600")
			return c.JSON(fiber.Map{
				"designator": designator,
				"variants":   variants,
			})
		}
		if deps.Navdata != nil {
			airways, err := deps.Navdata.GetAirways(c.Context(), designator)
			if err != nil {
				return errDomain(c, err)
			}
			if len(airways) == 0 {
				return errNotFound(c, "airway not found")
			}
			c.Set("Cache-Control", "public, max-age=3600")
			return c.JSON(fiber.Map{
				"designator": designator,
				"variants":   airways,
			})
		}

		return errUnavailable(c, "catalog not loaded")
	}
}

// GetAirportHandler returns a single airport by ICAO location indicator.
func GetAirportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		icao := c.Params("icao")
		if len(icao) != 4 {
			return errBadRequest(c, "icao must be a 4-letter location indicator")
		}

		// The catalog answers without a database round-trip; fall back to
		// the persisted cycle when the API runs without a loaded catalog.
		if deps.Catalog != nil {
			if airport, ok := deps.Catalog.LookupAirport(icao); ok {
				return c.JSON(airport)
			}
		}
		if deps.Navdata != nil {
			airport, err := deps.Navdata.GetAirportByICAO(c.Context(), icao)
			if err != nil {
				return errDomain(c, err)
			}
			return c.JSON(airport)
		}

		return errNotFound(c, "airport not found")
	}
}

// GetProcedureHandler returns the SID and STAR variants published under a
// designator, with the fixes where each connects to the en-route phase.
func GetProcedureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		designator := c.Params("designator")
		if designator == "" {
			return errBadRequest(c, "procedure designator is required")
		}
		if deps.Catalog == nil {
			return errUnavailable(c, "catalog not loaded")
		}

		sids := deps.Catalog.LookupSID(designator)
		stars := deps.Catalog.LookupSTAR(designator)
		if len(sids) == 0 && len(stars) == 0 {
			return errNotFound(c, "procedure not found")
		}

		resp := fiber.Map{"designator": designator}
		if len(sids) > 0 {
			resp["sids"] = sids
			resp["exit_fixes"] = deps.Catalog.SIDExitFixes(designator)
		}
		if len(stars) > 0 {
			resp["stars"] = stars
			resp["entry_fixes"] = deps.Catalog.STAREntryFixes(designator)
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(resp)
	}
}

// AirwaySegmentsHandler returns the persisted segments of one airway
// variant, paginated.
func AirwaySegmentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "airway id is required")
		}

		if deps.Navdata == nil {
			return errUnavailable(c, "airway store not available")
		}
		segments, err := deps.Navdata.GetAirwaySegments(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(segments)
		if offset >= total {
			segments = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			segments = segments[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: segments, Pagination: pg})
	}
}

// CatalogStatusHandler reports the loaded AIRAC cycle and, when a database
// is wired, the persisted row counts.
func CatalogStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := fiber.Map{}

		if deps.Catalog != nil {
			resp["catalog"] = deps.Catalog.Stats()
		}
		if deps.Navdata != nil {
			if counts, err := deps.Navdata.Counts(c.Context()); err == nil {
				resp["database"] = counts
			}
		}

		if len(resp) == 0 {
			return errUnavailable(c, "catalog not loaded")
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(resp)
	}
}
