package models

import "time"

// The store hands back map[string]interface{} documents; these helpers turn
// untyped values into typed-or-zero results so that defaulting lives in one
// place.

// deref unwraps the pointer encodings document maps may hold so the As*
// helpers see the same scalars regardless of which store produced the map.
func deref(v interface{}) interface{} {
	switch x := v.(type) {
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *int:
		if x == nil {
			return nil
		}
		return *x
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}

// AsString returns v as a string, or "" when it is not one.
func AsString(v interface{}) string {
	if s, ok := deref(v).(string); ok {
		return s
	}
	return ""
}

// AsInt returns v as an int across the numeric encodings the store and JSON
// produce.
func AsInt(v interface{}) int {
	switch x := deref(v).(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

// AsFloat returns v as a float64 plus whether it was numeric.
func AsFloat(v interface{}) (float64, bool) {
	switch x := deref(v).(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func AsBool(v interface{}) bool {
	b, _ := deref(v).(bool)
	return b
}

// AsTime accepts time.Time values and RFC3339 strings.
func AsTime(v interface{}) (time.Time, bool) {
	switch x := deref(v).(type) {
	case time.Time:
		return x, true
	case string:
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func optString(v interface{}) *string {
	if s := AsString(v); s != "" {
		return &s
	}
	return nil
}

func optFloat(v interface{}) *float64 {
	if f, ok := AsFloat(v); ok {
		return &f
	}
	return nil
}

func optInt(v interface{}) *int {
	if f, ok := AsFloat(v); ok {
		n := int(f)
		return &n
	}
	return nil
}

func optTime(v interface{}) *time.Time {
	if t, ok := AsTime(v); ok {
		return &t
	}
	return nil
}

// ProfileFromDoc materializes a profile, defaulting missing fields the same
// way for every reader: plan=starter, leads_limit=plan ceiling, counters 0.
func ProfileFromDoc(doc map[string]interface{}) Profile {
	p := Profile{
		Email:       AsString(doc["email"]),
		DisplayName: optString(doc["display_name"]),
		Plan:        Plan(AsString(doc["plan"])),
		LeadsUsed:   AsInt(doc["leads_used"]),
		IsSuspended: AsBool(doc["is_suspended"]),
		SuspendedAt: optTime(doc["suspended_at"]),
	}
	if !p.Plan.Valid() {
		p.Plan = PlanStarter
	}
	if limit, ok := doc["leads_limit"]; ok {
		p.LeadsLimit = AsInt(limit)
	} else {
		p.LeadsLimit = p.Plan.LeadsLimit()
	}
	if p.LeadsUsed < 0 {
		p.LeadsUsed = 0
	}
	if t, ok := AsTime(doc["created_at"]); ok {
		p.CreatedAt = t
	}
	return p
}

func (p Profile) Doc() map[string]interface{} {
	doc := map[string]interface{}{
		"email":        p.Email,
		"display_name": p.DisplayName,
		"plan":         string(p.Plan),
		"leads_used":   p.LeadsUsed,
		"leads_limit":  p.LeadsLimit,
		"is_suspended": p.IsSuspended,
		"suspended_at": p.SuspendedAt,
		"created_at":   p.CreatedAt,
	}
	return doc
}

func SearchFromDoc(id string, doc map[string]interface{}) Search {
	s := Search{
		ID:           id,
		UserID:       AsString(doc["user_id"]),
		Keyword:      AsString(doc["keyword"]),
		City:         AsString(doc["city"]),
		Country:      AsString(doc["country"]),
		MaxResults:   AsInt(doc["max_results"]),
		Status:       SearchStatus(AsString(doc["status"])),
		TotalResults: AsInt(doc["total_results"]),
		ErrorMessage: optString(doc["error_message"]),
		RunID:        optString(doc["run_id"]),
	}
	if s.Status == "" {
		s.Status = StatusQueued
	}
	if t, ok := AsTime(doc["updated_at"]); ok {
		s.UpdatedAt = t
	}
	return s
}

func (l Lead) Doc() map[string]interface{} {
	return map[string]interface{}{
		"business_name": l.BusinessName,
		"address":       l.Address,
		"phone":         l.Phone,
		"website":       l.Website,
		"email":         l.Email,
		"rating":        l.Rating,
		"reviews_count": l.ReviewsCount,
		"category":      l.Category,
		"latitude":      l.Latitude,
		"longitude":     l.Longitude,
		"search_id":     l.SearchID,
		"user_id":       l.UserID,
		"created_at":    l.CreatedAt,
	}
}

func LeadFromDoc(doc map[string]interface{}) Lead {
	l := Lead{
		BusinessName: optString(doc["business_name"]),
		Address:      optString(doc["address"]),
		Phone:        optString(doc["phone"]),
		Website:      optString(doc["website"]),
		Email:        optString(doc["email"]),
		Rating:       optFloat(doc["rating"]),
		ReviewsCount: optInt(doc["reviews_count"]),
		Category:     optString(doc["category"]),
		Latitude:     optFloat(doc["latitude"]),
		Longitude:    optFloat(doc["longitude"]),
		SearchID:     AsString(doc["search_id"]),
		UserID:       AsString(doc["user_id"]),
	}
	if t, ok := AsTime(doc["created_at"]); ok {
		l.CreatedAt = t
	}
	return l
}

func (s Subscription) Doc() map[string]interface{} {
	return map[string]interface{}{
		"plan":       string(s.Plan),
		"status":     s.Status,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}
