package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyType enumerates the unit types a developer project can contain.
type PropertyType string

const (
	PropertyTypeChalet          PropertyType = "chalet"
	PropertyTypeApartment       PropertyType = "apartment"
	PropertyTypeTwinVilla       PropertyType = "twin_villa"
	PropertyTypeStandaloneVilla PropertyType = "standalone_villa"
)

// AreaRange buckets a property's area in square meters.
type AreaRange string

const (
	AreaLessThan100 AreaRange = "less_than_100"
	Area100To150    AreaRange = "100_to_150"
	Area150To200    AreaRange = "150_to_200"
	AreaOver200     AreaRange = "over_200"
)

// PriceRange buckets a property's asking price.
type PriceRange string

const (
	Price2To3Million PriceRange = "2_to_3_million"
	Price3To4Million PriceRange = "3_to_4_million"
	Price4To5Million PriceRange = "4_to_5_million"
	PriceOver5M      PriceRange = "over_5_million"
)

// PropertyStatus is the availability state driven by the appointment workflow.
// It is written only by the appointment usecase; project and property update
// paths must never touch it.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusReserved  PropertyStatus = "reserved"
	PropertyStatusSold      PropertyStatus = "sold"
)

// Property is a single unit embedded in a Project document. It has no
// collection of its own; its identity is the embedded _id, stable across
// project updates.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Type        PropertyType       `bson:"type" json:"type"`
	AreaRange   AreaRange          `bson:"areaRange" json:"areaRange"`
	PriceRange  PriceRange         `bson:"priceRange" json:"priceRange"`
	Bedrooms    int                `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms   int                `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Status      PropertyStatus     `bson:"status" json:"status"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
}

// Project is a real-estate development owning its properties by value.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Developer   string             `bson:"developer,omitempty" json:"developer,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Properties  []Property         `bson:"properties" json:"properties"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidPropertyType reports whether t is one of the enumerated property types.
func ValidPropertyType(t PropertyType) bool {
	switch t {
	case PropertyTypeChalet, PropertyTypeApartment, PropertyTypeTwinVilla, PropertyTypeStandaloneVilla:
		return true
	}
	return false
}

// ValidAreaRange reports whether r is one of the enumerated area ranges.
func ValidAreaRange(r AreaRange) bool {
	switch r {
	case AreaLessThan100, Area100To150, Area150To200, AreaOver200:
		return true
	}
	return false
}

// ValidPriceRange reports whether r is one of the enumerated price ranges.
func ValidPriceRange(r PriceRange) bool {
	switch r {
	case Price2To3Million, Price3To4Million, Price4To5Million, PriceOver5M:
		return true
	}
	return false
}

// ValidPropertyStatus reports whether s is one of the enumerated statuses.
func ValidPropertyStatus(s PropertyStatus) bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusReserved, PropertyStatusSold:
		return true
	}
	return false
}

// Validate checks the property's enum fields and room counts.
func (p *Property) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("property title is required")
	}
	if !ValidPropertyType(p.Type) {
		return fmt.Errorf("invalid property type %q", p.Type)
	}
	if !ValidAreaRange(p.AreaRange) {
		return fmt.Errorf("invalid area range %q", p.AreaRange)
	}
	if !ValidPriceRange(p.PriceRange) {
		return fmt.Errorf("invalid price range %q", p.PriceRange)
	}
	if p.Bedrooms < 1 {
		return fmt.Errorf("bedrooms must be at least 1")
	}
	if p.Bathrooms < 1 {
		return fmt.Errorf("bathrooms must be at least 1")
	}
	return nil
}

// FindProperty returns a pointer into the project's property slice for the
// given id, or nil when absent. Callers mutate the returned property and then
// persist the whole project.
func (pr *Project) FindProperty(propertyID primitive.ObjectID) *Property {
	for i := range pr.Properties {
		if pr.Properties[i].ID == propertyID {
			return &pr.Properties[i]
		}
	}
	return nil
}
