package repos

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func mustObjectID(t *testing.T, hex string) bson.ObjectID {
	t.Helper()
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("ObjectIDFromHex(%q): %v", hex, err)
	}
	return id
}

func orBranches(t *testing.T, filter bson.M) bson.A {
	t.Helper()
	branches, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("filter has no $or branch list: %v", filter)
	}
	return branches
}

func TestEventMatchFilterCoversBothForms(t *testing.T) {
	id := mustObjectID(t, "64f0c0ffee00aabbccddeeff")
	branches := orBranches(t, eventMatchFilter(id))
	if len(branches) != 2 {
		t.Fatalf("want 2 branches, got %d", len(branches))
	}

	str := branches[0].(bson.M)
	if str["experiment_id"] != id.Hex() {
		t.Fatalf("string branch: want %q got %v", id.Hex(), str["experiment_id"])
	}
	native := branches[1].(bson.M)
	if native["experiment_id"] != id {
		t.Fatalf("native branch: want %v got %v", id, native["experiment_id"])
	}
}

func TestEventResetFilterIncludesLegacyFieldName(t *testing.T) {
	id := mustObjectID(t, "64f0c0ffee00aabbccddeeff")
	branches := orBranches(t, eventResetFilter(id))
	if len(branches) != 3 {
		t.Fatalf("want 3 branches, got %d", len(branches))
	}
	legacy := branches[2].(bson.M)
	if legacy["experimentId"] != id.Hex() {
		t.Fatalf("legacy branch: want %q under experimentId, got %v", id.Hex(), legacy)
	}
}

func TestAggregationPipelineShape(t *testing.T) {
	id := mustObjectID(t, "64f0c0ffee00aabbccddeeff")
	pipeline := aggregationPipeline(id)
	if len(pipeline) != 2 {
		t.Fatalf("want $match + $group, got %d stages", len(pipeline))
	}
	if pipeline[0][0].Key != "$match" {
		t.Fatalf("first stage: want $match, got %q", pipeline[0][0].Key)
	}
	group := pipeline[1]
	if group[0].Key != "$group" {
		t.Fatalf("second stage: want $group, got %q", group[0].Key)
	}
	fields := group[0].Value.(bson.D)
	if fields[0].Key != "_id" || fields[0].Value != "$variant_name" {
		t.Fatalf("group key must be $variant_name, got %v", fields[0])
	}
	names := map[string]bool{}
	for _, f := range fields {
		names[f.Key] = true
	}
	for _, want := range []string{"exposures", "conversions", "total"} {
		if !names[want] {
			t.Fatalf("group stage missing %q accumulator: %v", want, names)
		}
	}
}
