package storage

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rewear/backend/internal/filter"
)

// BSONFilter compiles e into a Mongo query document. Substring clauses
// become case-insensitive regexes over the quoted literal.
func BSONFilter(e filter.Expr) bson.M {
	switch x := e.(type) {
	case nil:
		return bson.M{}
	case filter.Equals:
		return bson.M{x.Field: x.Value}
	case filter.Contains:
		return bson.M{x.Field: primitive.Regex{Pattern: regexp.QuoteMeta(x.Substring), Options: "i"}}
	case filter.And:
		if len(x) == 0 {
			return bson.M{}
		}
		if len(x) == 1 {
			return BSONFilter(x[0])
		}
		parts := make(bson.A, len(x))
		for i, c := range x {
			parts[i] = BSONFilter(c)
		}
		return bson.M{"$and": parts}
	case filter.Or:
		if len(x) == 0 {
			// $or rejects an empty array.
			return bson.M{"$expr": false}
		}
		parts := make(bson.A, len(x))
		for i, c := range x {
			parts[i] = BSONFilter(c)
		}
		return bson.M{"$or": parts}
	}
	return bson.M{"$expr": false}
}
