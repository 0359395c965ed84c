package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func sampleDocs() []Document {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Document{
		{ID: "b", CreatedAt: base.Add(2 * time.Hour), Data: map[string]any{"title": "beta", "order": float64(2), "category": "Web", "tags": []any{"go", "api"}}},
		{ID: "a", CreatedAt: base.Add(1 * time.Hour), Data: map[string]any{"title": "Alpha", "order": float64(1), "category": "mobile"}},
		{ID: "c", CreatedAt: base.Add(3 * time.Hour), Data: map[string]any{"title": "gamma", "category": "web", "published": true}},
	}
}

func TestSortDocuments(t *testing.T) {
	tests := []struct {
		name  string
		field string
		desc  bool
		want  []string
	}{
		{"createdAt desc", "createdAt", true, []string{"c", "b", "a"}},
		{"default is createdAt asc", "", false, []string{"a", "b", "c"}},
		{"title case-insensitive", "title", false, []string{"a", "b", "c"}},
		{"numeric with missing last", "order", false, []string{"a", "b", "c"}},
		{"numeric desc keeps missing last", "order", true, []string{"b", "a", "c"}},
		{"id", "id", true, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := sampleDocs()
			SortDocuments(docs, tt.field, tt.desc)
			assert.Equal(t, tt.want, ids(docs))
		})
	}
}

func TestSortDocuments_TiesBreakByID(t *testing.T) {
	docs := []Document{
		{ID: "z", Data: map[string]any{"order": 1}},
		{ID: "m", Data: map[string]any{"order": int64(1)}},
		{ID: "a", Data: map[string]any{"order": 1.0}},
	}
	SortDocuments(docs, "order", false)
	assert.Equal(t, []string{"a", "m", "z"}, ids(docs))
}

func TestSortDocuments_RFC3339StringsSortAsTimes(t *testing.T) {
	docs := []Document{
		{ID: "late", Data: map[string]any{"publishedAt": "2026-03-01T10:00:00.123Z"}},
		{ID: "second", Data: map[string]any{"publishedAt": "2026-03-01T10:00:00.12Z"}},
		{ID: "zone", Data: map[string]any{"publishedAt": "2026-03-01T07:00:00.115-03:00"}},
		{ID: "early", Data: map[string]any{"publishedAt": "2026-03-01T10:00:00.1Z"}},
		{ID: "none", Data: map[string]any{}},
	}
	SortDocuments(docs, "publishedAt", false)
	assert.Equal(t, []string{"early", "zone", "second", "late", "none"}, ids(docs))

	SortDocuments(docs, "publishedAt", true)
	assert.Equal(t, []string{"late", "second", "zone", "early", "none"}, ids(docs))
}

func TestFilterDocuments(t *testing.T) {
	docs := sampleDocs()

	assert.Equal(t, []string{"b", "c"}, ids(FilterDocuments(docs, Filter{Equals: map[string]string{"category": "WEB"}})))
	assert.Equal(t, []string{"c"}, ids(FilterDocuments(docs, Filter{Equals: map[string]string{"published": "true"}})))
	assert.Equal(t, []string{"b"}, ids(FilterDocuments(docs, Filter{Equals: map[string]string{"tags": "api"}})))
	assert.Equal(t, []string{"a"}, ids(FilterDocuments(docs, Filter{Search: "ALPH"})))
	assert.Equal(t, []string{"b"}, ids(FilterDocuments(docs, Filter{Search: "go"})))
	assert.Len(t, FilterDocuments(docs, Filter{}), 3)
	assert.Empty(t, FilterDocuments(docs, Filter{Equals: map[string]string{"missing": "x"}}))
}

func TestPaginate(t *testing.T) {
	docs := sampleDocs()

	assert.Equal(t, []string{"a"}, ids(Paginate(docs, 1, 1)))
	assert.Equal(t, []string{"a", "c"}, ids(Paginate(docs, 1, 0)))
	assert.Empty(t, Paginate(docs, 5, 1))
	assert.Len(t, Paginate(docs, -1, 10), 3)
}
