package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseQueryDefaults(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   Query
	}{
		{
			name:   "empty request",
			values: url.Values{},
			want:   Query{Search: "", SortBy: "createdAt", SortOrder: -1, Page: 1, ItemsPerPage: 15},
		},
		{
			name: "all parameters set",
			values: url.Values{
				"search":       {"phone"},
				"sortBy":       {"name"},
				"sortOrder":    {"asc"},
				"page":         {"3"},
				"itemsPerPage": {"20"},
			},
			want: Query{Search: "phone", SortBy: "name", SortOrder: 1, Page: 3, ItemsPerPage: 20},
		},
		{
			name: "non-numeric page and size coerce to defaults",
			values: url.Values{
				"page":         {"abc"},
				"itemsPerPage": {"x"},
			},
			want: Query{Search: "", SortBy: "createdAt", SortOrder: -1, Page: 1, ItemsPerPage: 15},
		},
		{
			name: "zero and negative coerce to defaults",
			values: url.Values{
				"page":         {"0"},
				"itemsPerPage": {"-5"},
			},
			want: Query{Search: "", SortBy: "createdAt", SortOrder: -1, Page: 1, ItemsPerPage: 15},
		},
		{
			name:   "unknown sort order stays descending",
			values: url.Values{"sortOrder": {"up"}},
			want:   Query{Search: "", SortBy: "createdAt", SortOrder: -1, Page: 1, ItemsPerPage: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.values))
		})
	}
}

func TestAllowSort(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		sortable []string
		want     string
	}{
		{name: "listed field passes", sortBy: "name", sortable: []string{"createdAt", "name"}, want: "name"},
		{name: "default always usable", sortBy: "createdAt", sortable: []string{"createdAt", "name"}, want: "createdAt"},
		{name: "unlisted field falls back", sortBy: "password", sortable: []string{"createdAt", "name"}, want: "createdAt"},
		{name: "arbitrary input falls back", sortBy: "$where", sortable: []string{"createdAt", "name"}, want: "createdAt"},
		{name: "empty allow-list falls back", sortBy: "name", sortable: nil, want: "createdAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Query{SortBy: tt.sortBy}.AllowSort(tt.sortable...)
			assert.Equal(t, tt.want, q.SortBy)
		})
	}
}

func TestFilter(t *testing.T) {
	q := Query{Search: "router"}
	filter := q.Filter("name", "description")

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	first := or[0].(bson.M)
	regex, ok := first["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "router", regex.Pattern)
	assert.Equal(t, "i", regex.Options)

	second := or[1].(bson.M)
	_, ok = second["description"].(primitive.Regex)
	assert.True(t, ok)
}

func TestFilterEscapesRegexMeta(t *testing.T) {
	q := Query{Search: "50% off (today)"}
	filter := q.Filter("name")

	or := filter["$or"].(bson.A)
	regex := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `50% off \(today\)`, regex.Pattern)
}

func TestFilterEmptySearchMatchesAll(t *testing.T) {
	q := Query{Search: ""}
	filter := q.Filter("name", "description")

	// An empty pattern matches every string, so the filter is match-all.
	or := filter["$or"].(bson.A)
	for _, clause := range or {
		for _, v := range clause.(bson.M) {
			assert.Equal(t, "", v.(primitive.Regex).Pattern)
		}
	}
}

func TestFindOptionsPaging(t *testing.T) {
	q := Query{SortBy: "createdAt", SortOrder: -1, Page: 3, ItemsPerPage: 15}
	opts := q.FindOptions()

	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(30), *opts.Skip)
	assert.Equal(t, int64(15), *opts.Limit)

	sort, ok := opts.Sort.(bson.D)
	require.True(t, ok)
	require.Len(t, sort, 1)
	assert.Equal(t, "createdAt", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)
}

// Concatenating pages 1..k covers the first k*p positions exactly once.
func TestPagesTileWithoutGapsOrOverlap(t *testing.T) {
	const perPage = 4
	const records = 18

	seen := map[int64]int{}
	for page := int64(1); page <= 5; page++ {
		q := Query{Page: page, ItemsPerPage: perPage}
		start := q.Skip()
		end := start + perPage
		if end > records {
			end = records
		}
		for i := start; i < end; i++ {
			seen[i]++
		}
	}

	require.Len(t, seen, records)
	for i := int64(0); i < records; i++ {
		assert.Equal(t, 1, seen[i], "position %d", i)
	}
}
