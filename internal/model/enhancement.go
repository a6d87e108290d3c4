package model

import (
	"fmt"
	"slices"
	"time"
)

// RenovationMode selects whether a single room or the whole gallery is restyled
type RenovationMode string

const (
	ModeRoom  RenovationMode = "room"
	ModeHouse RenovationMode = "house"
)

// Valid reports whether m is a known mode
func (m RenovationMode) Valid() bool {
	return m == ModeRoom || m == ModeHouse
}

// RenovationStyles lists the styles offered by the renovation panel
var RenovationStyles = []string{"Modern", "Industrial", "Boho", "Minimal"}

// JobStatus is the lifecycle state of an enhancement job
type JobStatus string

const (
	JobIdle    JobStatus = "idle"
	JobPending JobStatus = "pending"
	JobReady   JobStatus = "ready"
	JobError   JobStatus = "error"
)

// JobKey identifies an enhancement job: one image of one listing
type JobKey struct {
	ListingID  ListingID `json:"listing_id"`
	ImageIndex int       `json:"image_index"`
}

func (k JobKey) String() string {
	return fmt.Sprintf("%s#%d", k.ListingID, k.ImageIndex)
}

// EnhancementParams are the generation parameters of a job
type EnhancementParams struct {
	Style         string         `json:"style"`
	Mode          RenovationMode `json:"mode"`
	ImageURL      string         `json:"image_url"`
	GalleryImages []string       `json:"gallery_images,omitempty"`
	Sqm           float64        `json:"sqm"`
}

// Equal reports whether two parameter sets would generate the same result
func (p EnhancementParams) Equal(o EnhancementParams) bool {
	return p.Style == o.Style &&
		p.Mode == o.Mode &&
		p.ImageURL == o.ImageURL &&
		p.Sqm == o.Sqm &&
		slices.Equal(p.GalleryImages, o.GalleryImages)
}

// Contractor is a partner quote attached to an enhancement result
type Contractor struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Price  float64 `json:"price"`
}

// EnhancementResult is what a completed generation yields
type EnhancementResult struct {
	Variants         []string     `json:"variants"`
	SelectedVariant  int          `json:"selected_variant"`
	EstimatedCostMin float64      `json:"estimated_cost_min"`
	EstimatedCostMax float64      `json:"estimated_cost_max"`
	Contractors      []Contractor `json:"contractors"`
}

// EnhancementJob is a cache entry
type EnhancementJob struct {
	Key    JobKey            `json:"key"`
	Status JobStatus         `json:"status"`
	Params EnhancementParams `json:"params"`
	EnhancementResult
	Error       string     `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SelectedImage returns the currently selected variant URL, or "" when none is available
func (j *EnhancementJob) SelectedImage() string {
	if j.Status != JobReady || j.SelectedVariant < 0 || j.SelectedVariant >= len(j.Variants) {
		return ""
	}
	return j.Variants[j.SelectedVariant]
}

// Clone returns a deep copy safe to hand to readers
func (j EnhancementJob) Clone() EnhancementJob {
	j.Params.GalleryImages = slices.Clone(j.Params.GalleryImages)
	j.Variants = slices.Clone(j.Variants)
	j.Contractors = slices.Clone(j.Contractors)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		j.CompletedAt = &t
	}
	return j
}

// RenovateRequest is the wire request of the enhancement service
type RenovateRequest struct {
	ImageURL      string         `json:"image_url"`
	Style         string         `json:"style"`
	Prompt        string         `json:"prompt"`
	Mode          RenovationMode `json:"mode"`
	Sqm           float64        `json:"sqm"`
	GalleryImages []string       `json:"gallery_images,omitempty"`
}

// RenovateResponse is the wire response of the enhancement service
type RenovateResponse struct {
	RenovatedImageURL string       `json:"renovated_image_url"`
	RenovatedGallery  []string     `json:"renovated_gallery,omitempty"`
	EstimatedCostMin  float64      `json:"estimated_cost_min"`
	EstimatedCostMax  float64      `json:"estimated_cost_max"`
	Contractors       []Contractor `json:"contractors"`
}
