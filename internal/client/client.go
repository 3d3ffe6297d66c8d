// Package client is a typed HTTP client for the trip planner API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// APIError is a non-2xx response decoded from the error envelope.
// It unwraps to the matching domain sentinel so callers can use errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

// ErrNoIdentity is returned by mutating calls made without an actor.
var ErrNoIdentity = errors.New("no identity: run `tripctl login NAME` first")

// Client calls the API at a base URL. The zero Actor sends no identity
// headers, which is enough for read-only calls.
type Client struct {
	baseURL string
	http    *http.Client
	actor   domain.Actor
}

// New returns a client for baseURL. A nil hc uses a client with a 15s timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// WithActor returns a copy of c that identifies as actor.
func (c *Client) WithActor(actor domain.Actor) *Client {
	cp := *c
	cp.actor = actor
	return &cp
}

// CreateTrip calls POST /trips.
func (c *Client) CreateTrip(ctx context.Context, req api.CreateTripRequest) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPost, "/trips", req, &out, true)
	return out, err
}

// GetTrip calls GET /trips/{tripID}.
func (c *Client) GetTrip(ctx context.Context, tripID string) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodGet, tripPath(tripID), nil, &out, false)
	return out, err
}

// AddHotel calls POST /trips/{tripID}/hotels.
func (c *Client) AddHotel(ctx context.Context, tripID, hotelURL string) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPost, tripPath(tripID, "hotels"), api.AddHotelRequest{URL: hotelURL}, &out, true)
	return out, err
}

// VoteHotel calls PUT .../hotels/{hotelID}/vote. A nil choice retracts.
func (c *Client) VoteHotel(ctx context.Context, tripID, hotelID string, choice *domain.VoteType) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPut, tripPath(tripID, "hotels", hotelID, "vote"), api.VoteRequest{Choice: choice}, &out, true)
	return out, err
}

// RankedHotels calls GET .../hotels/ranked.
func (c *Client) RankedHotels(ctx context.Context, tripID string) ([]api.RankedHotel, error) {
	var out []api.RankedHotel
	err := c.do(ctx, http.MethodGet, tripPath(tripID, "hotels", "ranked"), nil, &out, false)
	return out, err
}

// HotelPreview calls GET .../hotels/{hotelID}/preview.
func (c *Client) HotelPreview(ctx context.Context, tripID, hotelID string) (domain.LinkMetadata, error) {
	var out domain.LinkMetadata
	err := c.do(ctx, http.MethodGet, tripPath(tripID, "hotels", hotelID, "preview"), nil, &out, false)
	return out, err
}

// LinkPreview calls GET /link-preview.
func (c *Client) LinkPreview(ctx context.Context, rawURL string) (domain.LinkMetadata, error) {
	var out domain.LinkMetadata
	err := c.do(ctx, http.MethodGet, "/link-preview?url="+url.QueryEscape(rawURL), nil, &out, false)
	return out, err
}

// AddActivity calls POST /trips/{tripID}/activities.
func (c *Client) AddActivity(ctx context.Context, tripID string, req api.AddActivityRequest) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPost, tripPath(tripID, "activities"), req, &out, true)
	return out, err
}

// RateActivity calls PUT .../activities/{activityID}/rating. A nil rating retracts.
func (c *Client) RateActivity(ctx context.Context, tripID, activityID string, rating *int) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPut, tripPath(tripID, "activities", activityID, "rating"), api.RatingRequest{Rating: rating}, &out, true)
	return out, err
}

// AddPackingItem calls POST /trips/{tripID}/packing.
func (c *Client) AddPackingItem(ctx context.Context, tripID, name string) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPost, tripPath(tripID, "packing"), api.AddPackingItemRequest{Name: name}, &out, true)
	return out, err
}

// TogglePacking calls POST .../packing/{itemID}/toggle.
func (c *Client) TogglePacking(ctx context.Context, tripID, itemID string) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPost, tripPath(tripID, "packing", itemID, "toggle"), nil, &out, true)
	return out, err
}

// AddComment calls POST .../{kind}/{itemID}/comments.
func (c *Client) AddComment(ctx context.Context, tripID string, kind domain.ItemKind, itemID, text string) (api.Trip, error) {
	var out api.Trip
	err := c.do(ctx, http.MethodPost, tripPath(tripID, string(kind), itemID, "comments"), api.AddCommentRequest{Text: text}, &out, true)
	return out, err
}

// Export calls GET /trips/{tripID}/export as JSON.
func (c *Client) Export(ctx context.Context, tripID string) ([]domain.ExportRow, error) {
	var out []domain.ExportRow
	err := c.do(ctx, http.MethodGet, tripPath(tripID, "export")+"?format=json", nil, &out, false)
	return out, err
}

// ExportCSV calls GET /trips/{tripID}/export?format=csv and returns the raw CSV.
func (c *Client) ExportCSV(ctx context.Context, tripID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tripPath(tripID, "export")+"?format=csv", nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read export: %w", err)
	}
	return b, nil
}

func tripPath(tripID string, rest ...string) string {
	parts := append([]string{"trips", tripID}, rest...)
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, identify bool) error {
	if identify && !c.actor.Valid() {
		return ErrNoIdentity
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actor.Valid() {
		req.Header.Set(middleware.HeaderUserID, c.actor.ID)
		req.Header.Set(middleware.HeaderUserName, url.QueryEscape(c.actor.Name))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: "http_error", Message: resp.Status}
	var envelope api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
