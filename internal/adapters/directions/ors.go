package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/platform/obs"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions API.
//
// It coordinates:
//   - Travel-mode to ORS routing profile mapping
//   - Request shaping for the GeoJSON directions endpoint
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	logger  *zap.Logger
}

// NewORSRouteProvider builds a provider for the given API key. An empty
// baseURL selects the public OpenRouteService endpoint.
func NewORSRouteProvider(apiKey, baseURL string, logger *zap.Logger) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ORSRouteProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// profileFor maps a travel mode onto an ORS routing profile.
func profileFor(mode domain.TravelMode) string {
	switch mode {
	case domain.ModeCycling:
		return "cycling-regular"
	case domain.ModeDriving:
		return "driving-car"
	default:
		return "foot-walking"
	}
}

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Units        string      `json:"units"`
	Language     string      `json:"language"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Steps []struct {
					Instruction string  `json:"instruction"`
					Distance    float64 `json:"distance"`
				} `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// CalculateRoute fetches a turn-by-turn route between two points.
func (o *ORSRouteProvider) CalculateRoute(
	ctx context.Context,
	start, end orb.Point,
	mode domain.TravelMode,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, o.logger, "ors.CalculateRoute")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profileFor(mode))

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{{start[0], start[1]}, {end[0], end[1]}},
		Instructions: true,
		Units:        "m",
		Language:     "en",
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	return routeFromResponse(dr, mode)
}

// routeFromResponse converts the first feature of a directions response
// into a domain route, flattening segment steps into one instruction list.
func routeFromResponse(dr directionsResponse, mode domain.TravelMode) (domain.Route, error) {
	if len(dr.Features) == 0 {
		return domain.Route{}, errors.New("directions response has no features")
	}

	f := dr.Features[0]
	if len(f.Geometry.Coordinates) < 2 {
		return domain.Route{}, fmt.Errorf(
			"directions geometry has %d points; need at least 2",
			len(f.Geometry.Coordinates),
		)
	}

	line := make(orb.LineString, 0, len(f.Geometry.Coordinates))
	for _, c := range f.Geometry.Coordinates {
		if len(c) < 2 {
			return domain.Route{}, errors.New("directions geometry has a malformed coordinate")
		}
		line = append(line, orb.Point{c[0], c[1]})
	}

	var instructions []string
	for _, seg := range f.Properties.Segments {
		for _, step := range seg.Steps {
			if step.Instruction != "" {
				instructions = append(instructions, step.Instruction)
			}
		}
	}

	return domain.Route{
		Geometry:       line,
		Mode:           mode,
		DistanceMeters: f.Properties.Summary.Distance,
		Duration:       time.Duration(f.Properties.Summary.Duration * float64(time.Second)),
		Instructions:   instructions,
		Confidence:     1,
		Source:         domain.RouteSourceORS,
	}, nil
}
