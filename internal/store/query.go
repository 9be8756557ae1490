// Package store provides access to the complaint document store and the
// user/directory tables. Complaints are loosely-typed JSON documents;
// queries over them are built from conjunctive equality predicates, an
// optional timestamp lower bound, descending timestamp order, and a row cap.
package store

// FetchLimit is the global row cap applied to every complaint query.
const FetchLimit = 50

// Filter is a single equality predicate on a document field.
type Filter struct {
	Field string
	Value any
}

// Query describes one request against the complaints collection. Filters
// combine conjunctively; there is no disjunction — OR-shaped needs are
// served by issuing several queries and merging client-side. Since is an
// epoch-millisecond lower bound on the creation timestamp (0 = unbounded).
// Results always come back newest-first, capped at Limit rows.
type Query struct {
	Filters []Filter
	Since   int64
	Limit   int
}

// NewQuery returns a query with the default row cap.
func NewQuery() Query {
	return Query{Limit: FetchLimit}
}

// WhereEq appends an equality predicate. The filter slice is copied so
// several queries can be derived from one base without aliasing.
func (q Query) WhereEq(field string, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// WhereFloor appends a floor predicate. Floor 0 is the "all floors"
// sentinel and is omitted from the predicate set rather than matched
// literally.
func (q Query) WhereFloor(floor int) Query {
	if floor == 0 {
		return q
	}
	return q.WhereEq("floor", floor)
}

// SinceMillis sets the timestamp lower bound.
func (q Query) SinceMillis(cutoff int64) Query {
	q.Since = cutoff
	return q
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return FetchLimit
	}
	return q.Limit
}
