package search

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/afiliadosprobusiness-lab/map-leads-backend/models"
)

// syntheticCap bounds how many placeholder leads an offline run generates.
const syntheticCap = 10

// NormalizeItems maps raw provider records into leads owned by the given
// search. All defensive coercion of the provider's loosely-typed records
// happens here: numeric targets take only finite numbers, string targets only
// non-empty strings, everything else becomes null.
func NormalizeItems(items []map[string]interface{}, searchID, userID string, now time.Time) []models.Lead {
	leads := make([]models.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			item = map[string]interface{}{}
		}
		location, _ := item["location"].(map[string]interface{})
		lead := models.Lead{
			BusinessName: cleanString(item["title"]),
			Address:      cleanString(item["address"]),
			Phone:        cleanString(item["phone"]),
			Website:      cleanString(item["website"]),
			Email:        cleanString(item["email"]),
			Rating:       cleanNumber(item["totalScore"]),
			ReviewsCount: cleanCount(item["reviewsCount"]),
			Category:     firstCategory(item["categories"]),
			Latitude:     cleanNumber(location["lat"]),
			Longitude:    cleanNumber(location["lng"]),
			SearchID:     searchID,
			UserID:       userID,
			CreatedAt:    now,
		}
		leads = append(leads, lead)
	}
	return leads
}

// SyntheticLeads generates up to min(maxResults, 10) placeholder leads for
// runs without a configured provider. Names embed the keyword, an ordinal,
// and the city; ratings and review counts are sampled within fixed ranges.
func SyntheticLeads(keyword, city string, maxResults int, searchID, userID string, now time.Time) []models.Lead {
	count := maxResults
	if count > syntheticCap {
		count = syntheticCap
	}
	if count < 0 {
		count = 0
	}

	leads := make([]models.Lead, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %d - %s", keyword, i+1, city)
		phone := fmt.Sprintf("+1 555-%03d-%04d", rand.Intn(1000), rand.Intn(10000))
		rating := 3.2 + rand.Float64()*1.6
		reviews := rand.Intn(500)
		leads = append(leads, models.Lead{
			BusinessName: &name,
			Phone:        &phone,
			Rating:       &rating,
			ReviewsCount: &reviews,
			SearchID:     searchID,
			UserID:       userID,
			CreatedAt:    now,
		})
	}
	return leads
}

func cleanString(v interface{}) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}

func cleanNumber(v interface{}) *float64 {
	f, ok := models.AsFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func cleanCount(v interface{}) *int {
	f := cleanNumber(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func firstCategory(v interface{}) *string {
	items, ok := v.([]interface{})
	if !ok || len(items) == 0 {
		return nil
	}
	return cleanString(items[0])
}
