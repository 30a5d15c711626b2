package schema

import "github.com/atvirokodosprendimai/travelapi/internal/core/domain"

// Record is a validated payload. Every declared field is present: strings as
// string, dates as domain.Date, nested sequences as []Record, and absent
// optional values as nil.
type Record map[string]any

func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r Record) OptString(name string) *string {
	s, ok := r[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func (r Record) OptDate(name string) *domain.Date {
	d, ok := r[name].(domain.Date)
	if !ok {
		return nil
	}
	return &d
}

func (r Record) Records(name string) []Record {
	recs, _ := r[name].([]Record)
	return recs
}

func ToDestination(r Record) domain.Destination {
	return domain.Destination{
		Name:    r.String("name"),
		Country: r.String("country"),
		Image:   r.OptString("image"),
		Tagline: r.OptString("tagline"),
	}
}

func ToItinerary(r Record) domain.Itinerary {
	recs := r.Records("items")
	items := make([]domain.ItineraryItem, 0, len(recs))
	for _, item := range recs {
		items = append(items, ToItineraryItem(item))
	}
	return domain.Itinerary{
		Name:       r.String("name"),
		OwnerEmail: r.String("owner_email"),
		Items:      items,
	}
}

func ToItineraryItem(r Record) domain.ItineraryItem {
	return domain.ItineraryItem{
		Type:  domain.ItemType(r.String("type")),
		Title: r.String("title"),
		Date:  r.OptDate("date"),
		Time:  r.OptString("time"),
		Notes: r.OptString("notes"),
	}
}

func ToSubscriber(r Record) domain.Subscriber {
	return domain.Subscriber{Email: r.String("email")}
}

func ToMessage(r Record) domain.Message {
	return domain.Message{
		Name:    r.String("name"),
		Email:   r.String("email"),
		Message: r.String("message"),
	}
}
