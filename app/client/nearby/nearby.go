package nearby

import (
	"context"
	"encoding/json"
	"fmt"
	"lifeline/app/config"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const maxPlacesPerKind = 5

// Client talks to the facility/weather lookup service.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// Fetch looks up facilities and weather around the given coordinates.
func (c *Client) Fetch(ctx context.Context, lat, lng float64) (*Context, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.Nearby.BaseURL+"/nearby?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create nearby request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nearby context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nearby lookup failed with status %d", resp.StatusCode)
	}

	var result Context
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode nearby response: %w", err)
	}

	result.Places.Hospitals = pie.Top(result.Places.Hospitals, maxPlacesPerKind)
	result.Places.PoliceStations = pie.Top(result.Places.PoliceStations, maxPlacesPerKind)
	result.Places.FireStations = pie.Top(result.Places.FireStations, maxPlacesPerKind)

	return &result, nil
}
