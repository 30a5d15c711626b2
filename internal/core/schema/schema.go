// Package schema declares the shape of every stored entity and validates
// untyped request payloads against those declarations.
package schema

import (
	"strings"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
)

type Kind int

const (
	KindString Kind = iota
	KindEmail
	KindEnum
	KindDate
	KindRecords
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindEnum:
		return "enum"
	case KindDate:
		return "date"
	case KindRecords:
		return "records"
	default:
		return "string"
	}
}

// JSONType is the JSON value type a field of this kind must carry.
func (k Kind) JSONType() string {
	if k == KindRecords {
		return "array"
	}
	return "string"
}

type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Enum        []string
	Elem        *Schema
	Description string
}

// Schema is an ordered list of fields. Declaration order decides which
// failure is reported when a payload has several.
type Schema struct {
	Name   string
	Fields []Field
}

// Collection is the name of the collection that stores this entity.
func (s *Schema) Collection() string {
	return strings.ToLower(s.Name)
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var Destination = &Schema{
	Name: "Destination",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Description: "City or place name"},
		{Name: "country", Kind: KindString, Required: true, Description: "Country name"},
		{Name: "image", Kind: KindString, Description: "Hero image URL"},
		{Name: "tagline", Kind: KindString, Description: "Short marketing tagline"},
	},
}

var ItineraryItem = &Schema{
	Name: "ItineraryItem",
	Fields: []Field{
		{
			Name:     "type",
			Kind:     KindEnum,
			Required: true,
			Enum:     []string{string(domain.ItemFlight), string(domain.ItemHotel), string(domain.ItemActivity)},
		},
		{Name: "title", Kind: KindString, Required: true},
		{Name: "date", Kind: KindDate},
		{Name: "time", Kind: KindString, Description: "Time like 08:30"},
		{Name: "notes", Kind: KindString},
	},
}

var Itinerary = &Schema{
	Name: "Itinerary",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Description: "Trip name"},
		{Name: "owner_email", Kind: KindEmail, Required: true, Description: "Owner email"},
		{Name: "items", Kind: KindRecords, Elem: ItineraryItem},
	},
}

var Subscriber = &Schema{
	Name: "Subscriber",
	Fields: []Field{
		{Name: "email", Kind: KindEmail, Required: true},
	},
}

var Message = &Schema{
	Name: "Message",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true},
		{Name: "email", Kind: KindEmail, Required: true},
		{Name: "message", Kind: KindString, Required: true},
	},
}

// All lists the schemas of every entity, nested ones included.
func All() []*Schema {
	return []*Schema{Destination, ItineraryItem, Itinerary, Subscriber, Message}
}

// Lookup finds a schema by entity or collection name, case-insensitively.
func Lookup(name string) (*Schema, bool) {
	for _, s := range All() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}
