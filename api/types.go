package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Wire types shared by the HTTP server and the tripctl client.
// They mirror the schemas in openapi.yaml.

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	Destination string              `json:"destination"`
	StartDate   *openapi_types.Date `json:"startDate,omitempty"`
	EndDate     *openapi_types.Date `json:"endDate,omitempty"`
	URL         *string             `json:"url,omitempty"`
}

// Trip is the trip aggregate as returned by the API.
type Trip struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Destination string               `json:"destination"`
	StartDate   *openapi_types.Date  `json:"startDate,omitempty"`
	EndDate     *openapi_types.Date  `json:"endDate,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	Hotels      []domain.HotelOption `json:"hotels"`
	Activities  []domain.Activity    `json:"activities"`
	PackingList []domain.PackingItem `json:"packingList"`
	URLMetadata *domain.LinkMetadata `json:"urlMetadata,omitempty"`
}

// AddHotelRequest is the body of POST /trips/{tripID}/hotels.
type AddHotelRequest struct {
	URL string `json:"url"`
}

// VoteRequest is the body of PUT .../hotels/{itemID}/vote. A null choice
// retracts the caller's vote.
type VoteRequest struct {
	Choice *domain.VoteType `json:"choice"`
}

// RankedHotel is one entry of GET .../hotels/ranked.
type RankedHotel struct {
	Hotel       domain.HotelOption `json:"hotel"`
	Score       int                `json:"score"`
	MostPopular bool               `json:"mostPopular"`
}

// AddActivityRequest is the body of POST /trips/{tripID}/activities.
type AddActivityRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// RatingRequest is the body of PUT .../activities/{itemID}/rating. A null
// rating retracts the caller's rating.
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// AddPackingItemRequest is the body of POST /trips/{tripID}/packing.
type AddPackingItemRequest struct {
	Name string `json:"name"`
}

// AddCommentRequest is the body of POST .../{kind}/{itemID}/comments.
type AddCommentRequest struct {
	Text string `json:"text"`
}
