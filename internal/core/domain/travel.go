package domain

// ItemType enumerates the kinds of itinerary entries.
type ItemType string

const (
	ItemFlight   ItemType = "flight"
	ItemHotel    ItemType = "hotel"
	ItemActivity ItemType = "activity"
)

// Destination is curated content, created out-of-band and read-only here.
type Destination struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Image   *string `json:"image"`
	Tagline *string `json:"tagline"`
}

type ItineraryItem struct {
	Type  ItemType `json:"type"`
	Title string   `json:"title"`
	Date  *Date    `json:"date"`
	Time  *string  `json:"time"`
	Notes *string  `json:"notes"`
}

// Itinerary owns its items; their order is the order they were submitted in.
type Itinerary struct {
	Name       string          `json:"name"`
	OwnerEmail string          `json:"owner_email"`
	Items      []ItineraryItem `json:"items"`
}

type Subscriber struct {
	Email string `json:"email"`
}

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Stored documents may predate the current schema, so the projections below
// substitute defaults instead of failing.

func DestinationFromDocument(d Document) Destination {
	return Destination{
		Name:    d.String("name"),
		Country: d.String("country"),
		Image:   d.OptString("image"),
		Tagline: d.OptString("tagline"),
	}
}

func ItineraryFromDocument(d Document) Itinerary {
	raw := d.Objects("items")
	items := make([]ItineraryItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, ItineraryItemFromDocument(item))
	}
	return Itinerary{
		Name:       d.String("name"),
		OwnerEmail: d.String("owner_email"),
		Items:      items,
	}
}

func ItineraryItemFromDocument(d Document) ItineraryItem {
	item := ItineraryItem{
		Type:  ItemType(d.String("type")),
		Title: d.String("title"),
		Time:  d.OptString("time"),
		Notes: d.OptString("notes"),
	}
	if s := d.OptString("date"); s != nil {
		if date, err := ParseDate(*s); err == nil {
			item.Date = &date
		}
	}
	return item
}

func SubscriberFromDocument(d Document) Subscriber {
	return Subscriber{Email: d.String("email")}
}

func MessageFromDocument(d Document) Message {
	return Message{
		Name:    d.String("name"),
		Email:   d.String("email"),
		Message: d.String("message"),
	}
}
