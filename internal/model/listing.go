package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// PlaceholderImage is shown when a listing carries neither a gallery nor a main image
const PlaceholderImage = "/placeholder.jpg"

// Listing represents a property record surfaced by the assistant
type Listing struct {
	ID                  ListingID `json:"id"`
	Title               string    `json:"title"`
	City                string    `json:"city"`
	Zone                string    `json:"zone"`
	Address             *string   `json:"address,omitempty"`
	Price               float64   `json:"price"`
	MainImage           string    `json:"main_image,omitempty"`
	Images              []string  `json:"images"`
	Rooms               int       `json:"rooms"`
	Bathrooms           int       `json:"bathrooms"`
	Sqm                 float64   `json:"sqm"`
	Floor               *int      `json:"floor,omitempty"`
	TotalFloors         *int      `json:"total_floors,omitempty"`
	Elevator            *bool     `json:"elevator,omitempty"`
	Specs               JSONMap   `json:"specs,omitempty"`
	DescriptionAI       string    `json:"description_ai,omitempty"`
	DescriptionOriginal string    `json:"description_original,omitempty"`
}

// Normalize fills the image gallery from the main image when no gallery was given
func (l *Listing) Normalize() {
	images := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		if img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		if l.MainImage != "" {
			images = append(images, l.MainImage)
		} else {
			images = append(images, PlaceholderImage)
		}
	}
	l.Images = images
}

// Image returns the gallery image at index, or the placeholder when out of range
func (l *Listing) Image(index int) string {
	if index < 0 || index >= len(l.Images) {
		return PlaceholderImage
	}
	return l.Images[index]
}

// Heating returns specs.heating
func (l *Listing) Heating() string { return l.Specs.String("heating") }

// Contract returns specs.contract
func (l *Listing) Contract() string { return l.Specs.String("contract") }

// Furnished returns specs.furnished
func (l *Listing) Furnished() string { return l.Specs.String("furnished") }

// PropertyType returns specs.type
func (l *Listing) PropertyType() string { return l.Specs.String("type") }

// ListingID accepts both JSON strings and numbers and always renders as a string
type ListingID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ListingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ListingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("listing id must be a string or number: %w", err)
	}
	*id = ListingID(n.String())
	return nil
}

// JSONArray represents a JSON array column
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONArray", value)
	}
	return json.Unmarshal(data, j)
}

// JSONMap represents a free-form JSON object
type JSONMap map[string]interface{}

// String returns the value under key rendered as a string, or "" when absent
func (j JSONMap) String(key string) string {
	v, ok := j[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
