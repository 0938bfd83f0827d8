package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/lookup"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// Services are the orchestrators exposed over HTTP.
type Services struct {
	Current *lookup.CurrentLocation
	Search  *lookup.Search
	History *lookup.History
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
		})
	})

	v1 := app.Group("/api/v1")
	registerCurrent(v1, svc.Current)
	registerSearch(v1, svc.Search)
	registerHistory(v1, svc.History)
}

func registerCurrent(r fiber.Router, current *lookup.CurrentLocation) {
	r.Get("/current", func(c *fiber.Ctx) error {
		return c.JSON(newCurrentResponse(current, current.State()))
	})

	r.Post("/current", func(c *fiber.Ctx) error {
		st := current.Fetch(c.UserContext())
		return c.JSON(newCurrentResponse(current, st))
	})

	r.Post("/current/refresh", func(c *fiber.Ctx) error {
		st := current.Refresh(c.UserContext())
		return c.JSON(newCurrentResponse(current, st))
	})

	r.Delete("/current/permission-prompt", func(c *fiber.Ctx) error {
		current.DismissPermissionPrompt()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerSearch(r fiber.Router, search *lookup.Search) {
	r.Get("/search", func(c *fiber.Ctx) error {
		return c.JSON(newSearchResponse(search))
	})

	r.Put("/search/query", func(c *fiber.Ctx) error {
		var req queryRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		search.SetQuery(*req.Query)
		return c.Status(fiber.StatusAccepted).JSON(newSearchResponse(search))
	})

	r.Post("/search/weather", func(c *fiber.Ctx) error {
		var req candidateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
		st := search.FetchWeather(c.UserContext(), req.toCandidate())
		return c.JSON(newStateResponse(st))
	})

	r.Delete("/search/weather", func(c *fiber.Ctx) error {
		search.ClearWeather()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerHistory(r fiber.Router, history *lookup.History) {
	r.Get("/history", func(c *fiber.Ctx) error {
		history.LoadHistory(c.UserContext())
		return c.JSON(fiber.Map{"items": history.Items()})
	})

	r.Delete("/history", func(c *fiber.Ctx) error {
		history.ClearAllHistory(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Static paths are registered before /history/:id so they are not
	// captured by the parameter.
	r.Get("/history/weather", func(c *fiber.Ctx) error {
		return c.JSON(newStateResponse(history.State()))
	})

	r.Delete("/history/weather", func(c *fiber.Ctx) error {
		history.ClearWeather()
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/history/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if !history.DeleteItem(c.UserContext(), id) {
			return fiber.NewError(fiber.StatusNotFound, "no history entry with that id")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/history/:id/weather", func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		entry, ok := history.Entry(id)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no history entry with that id")
		}
		st := history.FetchWeather(c.UserContext(), entry)
		return c.JSON(newStateResponse(st))
	})
}

func bindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid history id")
	}
	return id, nil
}

// queryRequest is the body of PUT /search/query. An empty query is valid and
// clears the results; a missing one is not.
type queryRequest struct {
	Query *string `json:"query" validate:"required,max=200"`
}

// candidateRequest identifies a city to look up, typically one of the
// candidates previously returned by GET /search.
type candidateRequest struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Country   string   `json:"country"`
	Region    string   `json:"region"`
}

func (r candidateRequest) toCandidate() weather.CityCandidate {
	return weather.CityCandidate{
		Name:        r.Name,
		Coordinates: weather.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude},
		Country:     r.Country,
		Region:      r.Region,
	}
}

type stateResponse struct {
	Phase    string                   `json:"phase"`
	CityName string                   `json:"cityName,omitempty"`
	Weather  *weather.WeatherSnapshot `json:"weather,omitempty"`
	Message  string                   `json:"message,omitempty"`
}

func newStateResponse(s weather.ViewState) stateResponse {
	resp := stateResponse{Phase: s.Phase.String()}
	switch s.Phase {
	case weather.PhaseLoaded:
		snap := s.Snapshot
		resp.CityName = s.CityName
		resp.Weather = &snap
	case weather.PhaseFailed:
		resp.Message = s.Message
	}
	return resp
}

type currentResponse struct {
	State                stateResponse `json:"state"`
	ShowPermissionPrompt bool          `json:"showPermissionPrompt"`
}

func newCurrentResponse(current *lookup.CurrentLocation, s weather.ViewState) currentResponse {
	return currentResponse{
		State:                newStateResponse(s),
		ShowPermissionPrompt: current.ShowPermissionPrompt(),
	}
}

type searchResponse struct {
	Query       string                  `json:"query"`
	Candidates  []weather.CityCandidate `json:"candidates"`
	IsSearching bool                    `json:"isSearching"`
	State       stateResponse           `json:"state"`
}

func newSearchResponse(search *lookup.Search) searchResponse {
	return searchResponse{
		Query:       search.Query(),
		Candidates:  search.Candidates(),
		IsSearching: search.IsSearching(),
		State:       newStateResponse(search.State()),
	}
}
