package http

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// ListOptionsHandler returns the menu entries.
func ListOptionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Overlays.Options())
	}
}

// CreateSessionHandler opens a session at the initial viewport.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := deps.Maps.NewSession(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/sessions/" + session.ID)
		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// ListSessionsHandler returns sessions, most recently updated first.
func ListSessionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		sessions, total, err := deps.Maps.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		if sessions == nil {
			sessions = []domain.MapSession{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: sessions, Pagination: pg})
	}
}

// GetSessionHandler returns a single session.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := deps.Maps.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(session)
	}
}

type selectOverlayRequest struct {
	Option string `json:"option"`
}

// SelectOverlayResponse is returned after a menu selection.
type SelectOverlayResponse struct {
	Session *domain.MapSession   `json:"session"`
	Change  domain.OverlayChange `json:"change"`
}

// SelectOverlayHandler applies a menu option to a session.
func SelectOverlayHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req selectOverlayRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Option == "" {
			return errBadRequest(c, "option is required")
		}
		option, err := domain.ParseMapOption(req.Option)
		if err != nil {
			return errFromDomain(c, err)
		}

		session, change, err := deps.Overlays.Select(c.UserContext(), c.Params("id"), option)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(SelectOverlayResponse{Session: session, Change: change})
	}
}

type pointRequest struct {
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Mode string   `json:"mode"`
}

func (r pointRequest) point() (domain.GeoPoint, bool) {
	if r.Lat == nil || r.Lon == nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: *r.Lat, Lon: *r.Lon}, true
}

// CenterHandler moves the viewport. With mode "location" the region is sized
// for a device location, otherwise the fixed map scale is used.
func CenterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, ok := req.point()
		if !ok {
			return errBadRequest(c, "lat and lon are required")
		}

		var (
			session *domain.MapSession
			err     error
		)
		switch req.Mode {
		case "", "scale":
			session, err = deps.Maps.Center(c.UserContext(), c.Params("id"), p)
		case "location":
			session, err = deps.Maps.CenterOnLocation(c.UserContext(), c.Params("id"), p)
		default:
			return errBadRequest(c, "mode must be scale or location")
		}
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(session)
	}
}

// LocationHandler records a device location update.
func LocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, ok := req.point()
		if !ok {
			return errBadRequest(c, "lat and lon are required")
		}

		session, err := deps.Maps.UpdateLocation(c.UserContext(), c.Params("id"), p)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(session)
	}
}

// SessionTileHandler serves a tile of whatever overlay the session has in a slot.
func SessionTileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slot, err := domain.ParseSlot(c.Params("slot"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		coord, err := tileCoordParams(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		tile, err := deps.Tiles.FetchActive(c.UserContext(), c.Params("id"), slot, coord)
		if err != nil {
			return errFromDomain(c, err)
		}
		return sendTile(c, tile)
	}
}

// TileHandler serves a tile of a named option.
func TileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		option, err := domain.ParseMapOption(c.Params("option"))
		if err != nil {
			return errFromDomain(c, err)
		}
		coord, err := tileCoordParams(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		tile, err := deps.Tiles.Fetch(c.UserContext(), option, coord)
		if err != nil {
			return errFromDomain(c, err)
		}
		if option.Slot() == domain.SlotBase {
			c.Set("Cache-Control", "public, max-age=86400")
		} else {
			c.Set("Cache-Control", "public, max-age=600")
		}
		return sendTile(c, tile)
	}
}

func sendTile(c *fiber.Ctx, tile *domain.Tile) error {
	c.Set(fiber.HeaderContentType, tile.ContentType)
	return c.Send(tile.Data)
}

// tileCoordParams reads :z/:x/:y; y may carry an image extension.
func tileCoordParams(c *fiber.Ctx) (domain.TileCoord, error) {
	y := c.Params("y")
	if i := strings.IndexByte(y, '.'); i >= 0 {
		y = y[:i]
	}
	var coord domain.TileCoord
	for _, p := range []struct {
		name string
		raw  string
		dst  *uint32
	}{
		{"z", c.Params("z"), &coord.Z},
		{"x", c.Params("x"), &coord.X},
		{"y", y, &coord.Y},
	} {
		v, err := strconv.ParseUint(p.raw, 10, 32)
		if err != nil {
			return coord, fmt.Errorf("%s must be a non-negative integer", p.name)
		}
		*p.dst = uint32(v)
	}
	return coord, nil
}

// BoundaryHandler returns the boundary polygon as a GeoJSON FeatureCollection.
func BoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := deps.Boundary.FeatureCollection().MarshalJSON()
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(body)
	}
}

// BoundaryContainsHandler reports whether lat/lon lies inside the boundary.
func BoundaryContainsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		inside, err := deps.Boundary.Contains(p)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{
			"lat":    p.Lat,
			"lon":    p.Lon,
			"inside": inside,
			"name":   deps.Boundary.Boundary().Name,
		})
	}
}

// WeatherHandler returns current conditions at lat/lon.
func WeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		weather, err := deps.Weather.Current(c.UserContext(), p)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(weather)
	}
}

var (
	errMissingLatLon = errors.New("lat and lon are required")
	errBadLatLon     = errors.New("lat and lon must be numbers")
)

// queryPoint parses required lat and lon query parameters. Zero is a valid value.
func queryPoint(c *fiber.Ctx) (domain.GeoPoint, error) {
	rawLat, rawLon := c.Query("lat"), c.Query("lon")
	if rawLat == "" || rawLon == "" {
		return domain.GeoPoint{}, errMissingLatLon
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || math.IsNaN(lat) {
		return domain.GeoPoint{}, errBadLatLon
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || math.IsNaN(lon) {
		return domain.GeoPoint{}, errBadLatLon
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
