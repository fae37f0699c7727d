package domain

import "time"

// Canonical event names. The store does not enforce an enum; anything a
// client sends is recorded verbatim.
const (
	EventExposure   = "exposure"
	EventConversion = "conversion"
)

// Event is an append-only tracking record. ExperimentID is recorded as of
// tracking time and never revalidated against the experiment, which may
// have changed or been deleted since. Historically written events carry
// the experiment reference as either a raw hex string or a native
// ObjectID; new writes always use the string form.
type Event struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	ExperimentID string    `bson:"experiment_id" json:"experiment_id"`
	VariantName  string    `bson:"variant_name" json:"variant_name"`
	EventName    string    `bson:"event_name" json:"event_name"`
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
}
