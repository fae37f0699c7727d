package repos

import "go.mongodb.org/mongo-driver/v2/bson"

// Event records reference their experiment in more than one historical
// shape: the current writer stores the hex string under "experiment_id",
// older writers stored a native ObjectID under the same field, and the
// oldest used the field name "experimentId". Rather than scattering
// match-either-form logic through every query, the valid shapes are
// enumerated here once and every event query goes through them.

// eventMatchFilter matches the two "experiment_id" representations. This
// is the filter the aggregation pipeline uses.
func eventMatchFilter(id bson.ObjectID) bson.M {
	hex := id.Hex()
	return bson.M{"$or": bson.A{
		bson.M{"experiment_id": hex},
		bson.M{"experiment_id": id},
	}}
}

// eventResetFilter additionally matches the legacy "experimentId" field
// name so that a stats reset clears everything ever written for the
// experiment.
func eventResetFilter(id bson.ObjectID) bson.M {
	hex := id.Hex()
	return bson.M{"$or": bson.A{
		bson.M{"experiment_id": hex},
		bson.M{"experiment_id": id},
		bson.M{"experimentId": hex},
	}}
}
