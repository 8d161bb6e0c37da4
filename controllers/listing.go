package controllers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"boardshop/apperr"
	"boardshop/listing"
	"boardshop/utils"
)

// listingResult is the result payload of every listing endpoint.
type listingResult[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// listCollection runs a parsed listing query against a collection and
// writes the page plus a total computed per the endpoint's CountMode.
// sortFields is the collection's sortable allow-list; baseFilter, when
// non-nil, is ANDed with the search filter.
func listCollection[T any](w http.ResponseWriter, r *http.Request, coll *mongo.Collection, searchFields, sortFields []string, baseFilter bson.M, mode listing.CountMode) {
	q := listing.ParseQuery(r.URL.Query()).AllowSort(sortFields...)

	filter := q.Filter(searchFields...)
	if baseFilter != nil {
		filter = bson.M{"$and": bson.A{filter, baseFilter}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, filter, q.FindOptions())
	if err != nil {
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}
	defer cursor.Close(ctx)

	data := []T{}
	if err := cursor.All(ctx, &data); err != nil {
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	var total int64
	switch mode {
	case listing.CountEstimated:
		total, err = coll.EstimatedDocumentCount(ctx)
	default:
		total, err = coll.CountDocuments(ctx, filter)
	}
	if err != nil {
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	utils.WriteOK(w, "", listingResult[T]{Data: data, Total: total})
}
