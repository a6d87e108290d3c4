package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concierge/internal/config"
	"concierge/internal/model"
)

func TestAssistantClient_Chat(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{name: "Raw text body", status: http.StatusOK, body: "Ciao!\n```json\n[]\n```", want: "Ciao!\n```json\n[]\n```"},
		{name: "Server error", status: http.StatusInternalServerError, body: "boom", wantErr: true},
		{name: "Not found", status: http.StatusNotFound, body: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received := make(chan string, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
					t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
				}
				var req model.ChatRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				received <- req.Message
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := NewAssistantClient(&config.AssistantConfig{BaseURL: srv.URL, Timeout: 5})
			got, err := client.Chat(context.Background(), "trilocale a Milano")

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Chat = %q, want %q", got, tt.want)
			}
			if msg := <-received; msg != "trilocale a Milano" {
				t.Errorf("Server received message %q", msg)
			}
		})
	}
}

func TestAssistantClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewAssistantClient(&config.AssistantConfig{BaseURL: url, Timeout: 1})
	if _, err := client.Chat(context.Background(), "ciao"); err == nil {
		t.Error("Expected an error from a closed server")
	}
}

func TestRenovationClient_Renovate(t *testing.T) {
	tests := []struct {
		name         string
		params       model.EnhancementParams
		response     string
		wantGallery  int
		wantVariants []string
		wantSelected int
	}{
		{
			name:         "Room mode with relative image",
			params:       model.EnhancementParams{Style: "Modern", Mode: model.ModeRoom, ImageURL: "https://img/0.jpg", GalleryImages: []string{"a", "b"}, Sqm: 70},
			response:     `{"renovated_image_url":"/generated_images/r1.png","estimated_cost_min":7000,"estimated_cost_max":14000,"contractors":[{"name":"Edil","rating":4.7,"price":9000}]}`,
			wantGallery:  0,
			wantVariants: []string{"/generated_images/r1.png"},
			wantSelected: 0,
		},
		{
			name:         "House mode gallery is capped and resolved",
			params:       model.EnhancementParams{Style: "Boho", Mode: model.ModeHouse, ImageURL: "https://img/1.jpg", GalleryImages: []string{"a", "b", "c", "d", "e", "f"}, Sqm: 120},
			response:     `{"renovated_image_url":"/g/2.png","renovated_gallery":["/g/1.png","/g/2.png","https://cdn/3.png"],"estimated_cost_min":1,"estimated_cost_max":2,"contractors":[]}`,
			wantGallery:  4,
			wantVariants: []string{"/g/1.png", "/g/2.png", "https://cdn/3.png"},
			wantSelected: 1,
		},
		{
			name:         "Main image absent from gallery",
			params:       model.EnhancementParams{Style: "Minimal", Mode: model.ModeHouse, ImageURL: "https://img/1.jpg", GalleryImages: []string{"a"}},
			response:     `{"renovated_image_url":"https://cdn/main.png","renovated_gallery":["https://cdn/x.png"],"estimated_cost_min":1,"estimated_cost_max":2,"contractors":null}`,
			wantGallery:  1,
			wantVariants: []string{"https://cdn/x.png"},
			wantSelected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received := make(chan model.RenovateRequest, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/renovate" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				var req model.RenovateRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				received <- req
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.response)
			}))
			defer srv.Close()

			client, err := NewRenovationClient(&config.RenovationConfig{
				BaseURL: srv.URL, Timeout: 5, RequestsPerMinute: 600, Burst: 10, MaxGallery: 4,
			})
			if err != nil {
				t.Fatalf("NewRenovationClient: %v", err)
			}

			result, err := client.Renovate(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("Renovate: %v", err)
			}

			got := <-received
			if got.Style != tt.params.Style || got.Prompt != tt.params.Style || got.Mode != tt.params.Mode || got.ImageURL != tt.params.ImageURL {
				t.Errorf("Unexpected request %+v", got)
			}
			if len(got.GalleryImages) != tt.wantGallery {
				t.Errorf("gallery_images len = %d, want %d", len(got.GalleryImages), tt.wantGallery)
			}

			if len(result.Variants) != len(tt.wantVariants) {
				t.Fatalf("Variants = %v, want %v", result.Variants, tt.wantVariants)
			}
			for i, want := range tt.wantVariants {
				if strings.HasPrefix(want, "/") {
					want = srv.URL + want
				}
				if result.Variants[i] != want {
					t.Errorf("Variants[%d] = %q, want %q", i, result.Variants[i], want)
				}
			}
			if result.SelectedVariant != tt.wantSelected {
				t.Errorf("SelectedVariant = %d, want %d", result.SelectedVariant, tt.wantSelected)
			}
			if result.Contractors == nil {
				t.Error("Contractors should never be nil")
			}
		})
	}
}

func TestRenovationClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "Server error", status: http.StatusInternalServerError, body: `{"detail":"quota"}`},
		{name: "Malformed body", status: http.StatusOK, body: `not json`},
		{name: "Missing image", status: http.StatusOK, body: `{"estimated_cost_min":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client, err := NewRenovationClient(&config.RenovationConfig{BaseURL: srv.URL, Timeout: 5, Burst: 1})
			if err != nil {
				t.Fatalf("NewRenovationClient: %v", err)
			}
			if _, err := client.Renovate(context.Background(), model.EnhancementParams{Style: "Modern", Mode: model.ModeRoom}); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestNewRenovationClient_InvalidBaseURL(t *testing.T) {
	if _, err := NewRenovationClient(&config.RenovationConfig{BaseURL: "not a url"}); err == nil {
		t.Error("Expected an error for a base URL without scheme and host")
	}
}
