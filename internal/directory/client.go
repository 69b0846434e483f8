// ABOUTME: Client for the external doctor-directory API
// ABOUTME: Searches practitioners by location, radius, and specialty

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Query describes a practitioner search.
type Query struct {
	Latitude    float64
	Longitude   float64
	RadiusMiles int
	Specialty   string
	Limit       int
}

// Doctor is the projected subset of a practitioner record the gateway
// renders. The upstream response carries far more; only these fields are
// parsed.
type Doctor struct {
	FirstName          string
	LastName           string
	Specialties        []string
	PracticeName       string
	Address            string
	Phone              string
	Website            string
	DistanceMiles      float64
	Rating             float64
	AcceptsNewPatients bool
}

// Name returns the doctor's full name.
func (d *Doctor) Name() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Client calls the doctor-directory API. It borrows the shared lifecycle
// HTTP client rather than owning one.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

// NewClient builds a directory client over the given HTTP client.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		HTTP:    httpClient,
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

// wire types for the upstream response shape

type searchResponse struct {
	Data []doctorRecord `json:"data"`
}

type doctorRecord struct {
	Profile struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"profile"`
	Specialties []struct {
		Name string `json:"name"`
	} `json:"specialties"`
	Practices []struct {
		Name         string `json:"name"`
		Website      string `json:"website"`
		Distance     float64 `json:"distance"`
		VisitAddress struct {
			Street string `json:"street"`
			City   string `json:"city"`
			State  string `json:"state"`
		} `json:"visit_address"`
		Phones []struct {
			Number string `json:"number"`
		} `json:"phones"`
		Rating struct {
			Average float64 `json:"average"`
		} `json:"rating"`
		AcceptsNewPatients bool `json:"accepts_new_patients"`
	} `json:"practices"`
}

// Search queries practitioners near a location. A non-success status or a
// malformed body is returned as an error for the caller to contain.
func (c *Client) Search(ctx context.Context, q Query) ([]*Doctor, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}

	params := url.Values{
		"location":      {fmt.Sprintf("%f,%f,%d", q.Latitude, q.Longitude, q.RadiusMiles)},
		"specialty_uid": {q.Specialty},
		"limit":         {fmt.Sprintf("%d", q.Limit)},
		"user_key":      {c.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/doctors?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling doctor directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("doctor directory returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding doctor directory response: %w", err)
	}

	doctors := make([]*Doctor, 0, len(parsed.Data))
	for _, rec := range parsed.Data {
		d := &Doctor{
			FirstName: rec.Profile.FirstName,
			LastName:  rec.Profile.LastName,
		}
		for _, s := range rec.Specialties {
			if s.Name != "" {
				d.Specialties = append(d.Specialties, s.Name)
			}
		}
		if len(rec.Practices) > 0 {
			p := rec.Practices[0]
			d.PracticeName = p.Name
			d.Website = p.Website
			d.DistanceMiles = p.Distance
			d.Rating = p.Rating.Average
			d.AcceptsNewPatients = p.AcceptsNewPatients
			d.Address = joinAddress(p.VisitAddress.Street, p.VisitAddress.City, p.VisitAddress.State)
			if len(p.Phones) > 0 {
				d.Phone = p.Phones[0].Number
			}
		}
		doctors = append(doctors, d)
	}
	return doctors, nil
}

func joinAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
