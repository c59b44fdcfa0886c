package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/narrate"
	"github.com/neexbeast/geoguide/internal/places"
)

const maxBodyBytes = 1 << 20

type greetingRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Username  string   `json:"username" validate:"max=100"`
}

type chatRequest struct {
	Message             string         `json:"message" validate:"required,max=2000"`
	Latitude            *float64       `json:"latitude" validate:"required,latitude"`
	Longitude           *float64       `json:"longitude" validate:"required,longitude"`
	ConversationHistory []narrate.Turn `json:"conversation_history"`
	CurrentPlaces       []places.Place `json:"current_places"`
}

type placeDetailsRequest struct {
	PlaceID   string   `json:"place_id" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type enhancedSearchRequest struct {
	Query     string   `json:"query" validate:"required,max=2000"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// coordinate builds a Coordinate from optional request fields, nil if either is missing.
func coordinate(lat, lng *float64) *geo.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.Coordinate{Lat: *lat, Lng: *lng}
}

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (r *chatRequest) normalize() { r.Message = strings.TrimSpace(r.Message) }

func (r *enhancedSearchRequest) normalize() { r.Query = strings.TrimSpace(r.Query) }

func (r *placeDetailsRequest) normalize() { r.PlaceID = strings.TrimSpace(r.PlaceID) }

func (r *greetingRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		r.Username = narrate.DefaultUsername
	}
}

// requestError is a client-facing validation message.
type requestError string

func (e requestError) Error() string { return string(e) }

// decode reads a JSON body into dst, normalizes it, then validates it.
// An empty body decodes as an empty request so validation reports the missing field.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{ normalize() }) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return requestError("Invalid JSON body")
	}
	dst.normalize()
	if err := h.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError turns the first failed rule into a short client message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return requestError("Invalid request")
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return requestError(fmt.Sprintf("Missing %s", fe.Field()))
	}
	return requestError(fmt.Sprintf("Invalid %s", fe.Field()))
}
