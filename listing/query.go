// Package listing builds filtered, sorted, paged Mongo queries from
// request parameters. Boards, articles and products all list through it.
package listing

import (
	"net/url"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultSortBy       = "createdAt"
	DefaultItemsPerPage = 15
)

// CountMode selects how a listing endpoint computes its total.
type CountMode int

const (
	// CountExact counts documents matching the search filter.
	CountExact CountMode = iota
	// CountEstimated uses collection metadata; fast, ignores the filter.
	CountEstimated
)

// Query is a parsed listing request. Construct with ParseQuery.
type Query struct {
	Search       string
	SortBy       string
	SortOrder    int // 1 ascending, -1 descending
	Page         int64
	ItemsPerPage int64
}

// ParseQuery reads search, sortBy, sortOrder, page and itemsPerPage from
// request values. Anything missing, non-numeric or out of range falls
// back to its default rather than erroring.
func ParseQuery(values url.Values) Query {
	q := Query{
		Search:       values.Get("search"),
		SortBy:       values.Get("sortBy"),
		SortOrder:    -1,
		Page:         1,
		ItemsPerPage: DefaultItemsPerPage,
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if values.Get("sortOrder") == "asc" {
		q.SortOrder = 1
	}
	if page, err := strconv.ParseInt(values.Get("page"), 10, 64); err == nil && page >= 1 {
		q.Page = page
	}
	if per, err := strconv.ParseInt(values.Get("itemsPerPage"), 10, 64); err == nil && per >= 1 {
		q.ItemsPerPage = per
	}
	return q
}

// AllowSort clamps SortBy to the given sortable fields. An unlisted
// sort field falls back to the default rather than reaching the store,
// so callers never sort by arbitrary request input.
func (q Query) AllowSort(fields ...string) Query {
	for _, field := range fields {
		if q.SortBy == field {
			return q
		}
	}
	q.SortBy = DefaultSortBy
	return q
}

// Filter builds the search filter: the search text must appear as a
// case-insensitive substring of at least one of the given fields. An
// empty search matches every document.
func (q Query) Filter(fields ...string) bson.M {
	pattern := regexp.QuoteMeta(q.Search)
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: primitive.Regex{Pattern: pattern, Options: "i"}})
	}
	return bson.M{"$or": or}
}

// FindOptions returns the sort, skip and limit for the requested page.
func (q Query) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: q.SortOrder}}).
		SetSkip((q.Page - 1) * q.ItemsPerPage).
		SetLimit(q.ItemsPerPage)
}

// Skip is the number of documents before the requested page.
func (q Query) Skip() int64 {
	return (q.Page - 1) * q.ItemsPerPage
}
