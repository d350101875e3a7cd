package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	fixType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Fix",
		Fields: graphql.Fields{
			"kind":      &graphql.Field{Type: graphql.String},
			"id":        &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"name":      &graphql.Field{Type: graphql.String},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Segment",
		Fields: graphql.Fields{
			"start": &graphql.Field{Type: pointType},
			"end":   &graphql.Field{Type: pointType},
			"name":  &graphql.Field{Type: graphql.String},
		},
	})

	airportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Airport",
		Fields: graphql.Fields{
			"aixm_id":      &graphql.Field{Type: graphql.String},
			"icao":         &graphql.Field{Type: graphql.String},
			"iata":         &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"city":         &graphql.Field{Type: graphql.String},
			"elevation_ft": &graphql.Field{Type: graphql.Float},
			"latitude":     &graphql.Field{Type: graphql.Float},
			"longitude":    &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"resolveRoute": &graphql.Field{
				Type:        graphql.NewList(segmentType),
				Description: "Resolve an ICAO field 15 route string into geographic segments",
				Args: graphql.FieldConfigArgument{
					"route": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					route := p.Args["route"].(string)
					return deps.Resolver.EnrichRoute(p.Context, route)
				},
			},
			"flattenRoute": &graphql.Field{
				Type:        graphql.NewList(pointType),
				Description: "Resolve a route and collapse it into its waypoint sequence",
				Args: graphql.FieldConfigArgument{
					"route": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					route := p.Args["route"].(string)
					return deps.Resolver.FlattenRoute(p.Context, route)
				},
			},
			"searchFixes": &graphql.Field{
				Type:        graphql.NewList(fixType),
				Description: "Search fixes by designator or name (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					if deps.Navdata == nil {
						return nil, errors.New("search index not available")
					}
					return deps.Navdata.Search(p.Context, q, limit)
				},
			},
			"fixesNearby": &graphql.Field{
				Type:        graphql.NewList(fixType),
				Description: "Find fixes near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 50000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					if deps.Navdata == nil {
						return nil, errors.New("search index not available")
					}
					return deps.Navdata.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"fix": &graphql.Field{
				Type:        graphql.NewList(fixType),
				Description: "Get the catalog fixes published under a name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name := p.Args["name"].(string)
					if deps.Catalog == nil {
						return nil, nil
					}
					return deps.Catalog.LookupFix(name), nil
				},
			},
			"airport": &graphql.Field{
				Type:        airportType,
				Description: "Get an airport by ICAO location indicator",
				Args: graphql.FieldConfigArgument{
					"icao": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					icao := p.Args["icao"].(string)
					if deps.Catalog != nil {
						if airport, ok := deps.Catalog.LookupAirport(icao); ok {
							return airport, nil
						}
					}
					if deps.Navdata != nil {
						return deps.Navdata.GetAirportByICAO(p.Context, icao)
					}
					return nil, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
