package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusArchived = "archived"
)

// Variant is one treatment arm of an experiment. Value is the opaque
// payload delivered to clients and may be a string, number, or object.
type Variant struct {
	Name              string `bson:"name,omitempty" json:"name,omitempty"`
	Value             any    `bson:"value" json:"value"`
	TrafficPercentage int    `bson:"traffic_percentage" json:"traffic_percentage"`
}

// Experiment variant order matters: it defines the cumulative threshold
// boundaries used during assignment.
type Experiment struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Key       string        `bson:"key" json:"key"`
	Name      string        `bson:"name" json:"name"`
	Status    string        `bson:"status" json:"status"`
	Variants  []Variant     `bson:"variants" json:"variants"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPaused, StatusArchived:
		return true
	}
	return false
}

// ValidateVariants enforces the persistence invariant: at least one
// variant, and traffic percentages summing to exactly 100.
func ValidateVariants(variants []Variant) error {
	if len(variants) == 0 {
		return fmt.Errorf("at least one variant is required")
	}
	total := 0
	for _, v := range variants {
		if v.TrafficPercentage < 0 || v.TrafficPercentage > 100 {
			return fmt.Errorf("traffic_percentage must be in [0,100], got %d", v.TrafficPercentage)
		}
		total += v.TrafficPercentage
	}
	if total != 100 {
		return fmt.Errorf("traffic percentage must sum to 100, got %d", total)
	}
	return nil
}
