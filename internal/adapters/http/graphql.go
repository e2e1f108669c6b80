package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// timeField resolves a time.Time struct field to RFC 3339.
func timeField(get func(src interface{}) (time.Time, bool)) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			t, ok := get(p.Source)
			if !ok || t.IsZero() {
				return nil, nil
			}
			return t.UTC().Format(time.RFC3339), nil
		},
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"center":          &graphql.Field{Type: geoPointType},
			"latitude_delta":  &graphql.Field{Type: graphql.Float},
			"longitude_delta": &graphql.Field{Type: graphql.Float},
		},
	})

	optionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapOption",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.String},
			"label": &graphql.Field{Type: graphql.String},
			"slot":  &graphql.Field{Type: graphql.String},
		},
	})

	overlayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TileOverlay",
		Fields: graphql.Fields{
			"slot":                    &graphql.Field{Type: graphql.String},
			"option":                  &graphql.Field{Type: graphql.String},
			"url_template":            &graphql.Field{Type: graphql.String},
			"can_replace_map_content": &graphql.Field{Type: graphql.Boolean},
			"level":                   &graphql.Field{Type: graphql.Int},
			"installed_at": timeField(func(src interface{}) (time.Time, bool) {
				o, ok := src.(*domain.TileOverlay)
				if !ok || o == nil {
					return time.Time{}, false
				}
				return o.InstalledAt, true
			}),
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapSession",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"region":              &graphql.Field{Type: regionType},
			"base":                &graphql.Field{Type: overlayType},
			"data":                &graphql.Field{Type: overlayType},
			"legend_visible":      &graphql.Field{Type: graphql.Boolean},
			"annotations_visible": &graphql.Field{Type: graphql.Boolean},
			"last_location":       &graphql.Field{Type: geoPointType},
			"updated_at": timeField(func(src interface{}) (time.Time, bool) {
				s, ok := src.(*domain.MapSession)
				if !ok || s == nil {
					return time.Time{}, false
				}
				return s.UpdatedAt, true
			}),
		},
	})

	boundaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Boundary",
		Fields: graphql.Fields{
			"name":         &graphql.Field{Type: graphql.String},
			"vertices":     &graphql.Field{Type: graphql.NewList(geoPointType)},
			"stroke_color": &graphql.Field{Type: graphql.String},
			"line_width":   &graphql.Field{Type: graphql.Float},
		},
	})

	weatherType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Weather",
		Fields: graphql.Fields{
			"location":         &graphql.Field{Type: geoPointType},
			"place":            &graphql.Field{Type: graphql.String},
			"temperature_c":    &graphql.Field{Type: graphql.Float},
			"feels_like_c":     &graphql.Field{Type: graphql.Float},
			"pressure_hpa":     &graphql.Field{Type: graphql.Float},
			"humidity_pct":     &graphql.Field{Type: graphql.Float},
			"wind_speed_ms":    &graphql.Field{Type: graphql.Float},
			"wind_deg":         &graphql.Field{Type: graphql.Float},
			"precipitation_mm": &graphql.Field{Type: graphql.Float},
			"summary":          &graphql.Field{Type: graphql.String},
			"icon":             &graphql.Field{Type: graphql.String},
			"observed_at": timeField(func(src interface{}) (time.Time, bool) {
				w, ok := src.(*domain.WeatherCondition)
				if !ok || w == nil {
					return time.Time{}, false
				}
				return w.ObservedAt, true
			}),
		},
	})

	selectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OverlaySelection",
		Fields: graphql.Fields{
			"action":  &graphql.Field{Type: graphql.String},
			"slot":    &graphql.Field{Type: graphql.String},
			"option":  &graphql.Field{Type: graphql.String},
			"session": &graphql.Field{Type: sessionType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"options": &graphql.Field{
				Type:        graphql.NewList(optionType),
				Description: "Menu entries in display order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Overlays.Options(), nil
				},
			},
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "Get a map session by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Maps.Get(p.Context, p.Args["id"].(string))
				},
			},
			"boundary": &graphql.Field{
				Type:        boundaryType,
				Description: "The fixed boundary polygon",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Boundary.Boundary(), nil
				},
			},
			"weather": &graphql.Field{
				Type:        weatherType,
				Description: "Current weather at a location",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					return deps.Weather.Current(p.Context, domain.GeoPoint{Lat: lat, Lon: lon})
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"selectOverlay": &graphql.Field{
				Type:        selectionType,
				Description: "Apply a menu option to a session",
				Args: graphql.FieldConfigArgument{
					"session_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"option":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					option, err := domain.ParseMapOption(p.Args["option"].(string))
					if err != nil {
						return nil, err
					}
					session, change, err := deps.Overlays.Select(p.Context, p.Args["session_id"].(string), option)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"action":  string(change.Action),
						"slot":    string(change.Slot),
						"option":  string(change.Option),
						"session": session,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
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
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
