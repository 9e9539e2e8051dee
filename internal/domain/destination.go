package domain

import "time"

// AttractionItem is a single food or place recommendation.
type AttractionItem struct {
	Name          string `json:"name" dynamodbav:"name"`
	ImageURL      string `json:"image_url" dynamodbav:"image_url"`
	GoogleMapsURL string `json:"google_maps_url" dynamodbav:"google_maps_url"`
}

// Destination holds curated recommendations for a country, or for one region of it.
// A nil Region means the country-level entry.
type Destination struct {
	DestinationID       string           `json:"id" dynamodbav:"destination_id"`
	Country             string           `json:"country" dynamodbav:"country"`
	Region              *string          `json:"region" dynamodbav:"region"`
	FoodRecommendations []string         `json:"food_recommendations" dynamodbav:"food_recommendations"`
	TouristPlaces       []string         `json:"tourist_places" dynamodbav:"tourist_places"`
	FoodItems           []AttractionItem `json:"food_items" dynamodbav:"food_items"`
	TouristAttractions  []AttractionItem `json:"tourist_attractions" dynamodbav:"tourist_attractions"`
	CreatedAt           time.Time        `json:"created" dynamodbav:"created_at"`
	UpdatedAt           time.Time        `json:"updated" dynamodbav:"updated_at"`
}

// UniqueByName drops items whose name was already seen, keeping the first occurrence.
func UniqueByName(items []AttractionItem) []AttractionItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]AttractionItem, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it)
	}
	return out
}
