package merge

import "go.mongodb.org/mongo-driver/bson"

// Section merges a role-scoped update into an existing nested document,
// field by field. Leaf values (scalars and arrays) overwrite only when their
// key is in allowed; nested maps recurse with the same allow-list; every key
// of existing not touched by incoming carries through unchanged at every
// level. Leaves outside the allow-list are dropped silently, not rejected:
// a role can only affect its own leaf set even if it sends extra data.
//
// The result is a fresh map; neither input is mutated. Applying the same
// update twice is a no-op, and updates on disjoint allow-lists commute.
func Section(existing, incoming bson.M, allowed map[string]bool) bson.M {
	out := bson.M{}
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		if sub, ok := AsMap(v); ok {
			prev, _ := AsMap(out[k])
			out[k] = Section(prev, sub, allowed)
			continue
		}
		if allowed[k] {
			out[k] = v
		}
	}
	return out
}

// Replace overwrites the whole section with doc, copied. The default hook
// for single-author sections.
func Replace(doc bson.M) bson.M {
	out := bson.M{}
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// AsMap normalizes the two nested-map shapes that reach us: bson.M from the
// store and map[string]any from decoded JSON.
func AsMap(v any) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]any:
		return bson.M(m), true
	default:
		return nil, false
	}
}
