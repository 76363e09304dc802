package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"strings"

	"popcat/models"
)

// DefaultCountryAPIBaseURL is the country metadata API the catalog loads
// from at startup.
const DefaultCountryAPIBaseURL = "https://countryinfoapi.com"

// Country is one entry of the country catalog.
type Country struct {
	Name      string
	Shortcode string // lowercase ISO 3166-1 alpha-2
	Lat       float64
	Lng       float64
}

// Catalog is an immutable, name-indexed country list loaded once at startup.
type Catalog struct {
	countries []Country
	byName    map[string]*Country
}

// NewCatalog builds a catalog from a country list. Entries without a name,
// shortcode, or coordinates are dropped.
func NewCatalog(countries []Country) *Catalog {
	c := &Catalog{byName: make(map[string]*Country)}
	for _, country := range countries {
		if country.Name == "" || country.Shortcode == "" {
			continue
		}
		c.countries = append(c.countries, country)
		c.byName[strings.ToLower(country.Name)] = &c.countries[len(c.countries)-1]
	}
	return c
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.countries)
}

// Random picks one country uniformly at random.
func (c *Catalog) Random() Country {
	return c.countries[rand.Intn(len(c.countries))]
}

// Lookup finds a country by case-insensitive name.
func (c *Catalog) Lookup(name string) (Country, bool) {
	country, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Country{}, false
	}
	return *country, true
}

// Suggest returns up to limit country names containing the input, for
// autocomplete.
func (c *Catalog) Suggest(input string, limit int) []string {
	input = strings.ToLower(input)
	var names []string
	for _, country := range c.countries {
		if strings.Contains(strings.ToLower(country.Name), input) {
			names = append(names, country.Name)
		}
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

// Client fetches country metadata over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a country API client. httpClient must carry a bounded
// timeout; pass nil for a default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type countryResponse struct {
	Name   string    `json:"name"`
	CCA2   string    `json:"cca2"`
	LatLng []float64 `json:"latlng"`
}

// LoadCatalog fetches the full country list and builds a catalog.
func (c *Client) LoadCatalog(ctx context.Context) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/countries", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build country list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: country list fetch: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: country list fetch: status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var raw []countryResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: country list decode: %v", models.ErrUpstreamUnavailable, err)
	}

	countries := make([]Country, 0, len(raw))
	for _, r := range raw {
		if len(r.LatLng) != 2 {
			continue
		}
		countries = append(countries, Country{
			Name:      r.Name,
			Shortcode: strings.ToLower(r.CCA2),
			Lat:       r.LatLng[0],
			Lng:       r.LatLng[1],
		})
	}

	catalog := NewCatalog(countries)
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: country list is empty", models.ErrUpstreamUnavailable)
	}
	return catalog, nil
}

// SilhouetteURL returns the map silhouette image URL for a country
// shortcode.
func SilhouetteURL(shortcode string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/djaiss/mapsicon/master/all/%s/1024.png", shortcode)
}

// FetchSilhouette downloads the raw silhouette PNG for a country shortcode.
func (c *Client) FetchSilhouette(ctx context.Context, shortcode string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SilhouetteURL(shortcode), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build silhouette request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: silhouette fetch for %q: %v", models.ErrUpstreamUnavailable, shortcode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: silhouette fetch for %q: status %d", models.ErrUpstreamUnavailable, shortcode, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: silhouette read for %q: %v", models.ErrUpstreamUnavailable, shortcode, err)
	}
	return data, nil
}
