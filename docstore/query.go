package docstore

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortDocuments ordena in place, de forma estável. field pode ser "id",
// "createdAt", "updatedAt" ou qualquer campo de Data. Strings comparam sem
// diferenciar maiúsculas; documentos sem o campo vão para o fim nas duas
// direções; empates desempatam por id.
func SortDocuments(docs []Document, field string, desc bool) {
	if field == "" {
		field = FieldCreatedAt
	}
	sort.SliceStable(docs, func(i, j int) bool {
		a, aok := sortValue(docs[i], field)
		b, bok := sortValue(docs[j], field)
		switch {
		case !aok && !bok:
			return docs[i].ID < docs[j].ID
		case !aok:
			return false
		case !bok:
			return true
		}
		c := compare(a, b)
		if c == 0 {
			return docs[i].ID < docs[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func sortValue(d Document, field string) (any, bool) {
	switch field {
	case FieldID:
		return d.ID, true
	case FieldCreatedAt:
		return d.CreatedAt, true
	case FieldUpdatedAt:
		return d.UpdatedAt, true
	}
	v, ok := d.Data[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// compare ordena por tipo (bool < número < tempo < string) e, dentro do
// mesmo tipo, pelo valor. Strings RFC3339 (ex: publishedAt gravado como
// texto) contam como tempo.
func compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case 1:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		ta, _ := toTime(a)
		tb, _ := toTime(b)
		return ta.Compare(tb)
	default:
		return strings.Compare(strings.ToLower(toString(a)), strings.ToLower(toString(b)))
	}
}

func rank(v any) int {
	switch v.(type) {
	case bool:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case time.Time:
		return 2
	case string:
		if _, ok := toTime(v); ok {
			return 2
		}
	}
	return 3
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		// "2006-01-02T15:04:05Z" é o menor formato aceito
		if len(t) < 20 || t[4] != '-' || t[10] != 'T' {
			return time.Time{}, false
		}
		ts, err := time.Parse(time.RFC3339Nano, t)
		return ts, err == nil
	}
	return time.Time{}, false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Filter seleciona documentos por igualdade de campos e busca textual.
type Filter struct {
	// Equals compara o valor formatado do campo, sem diferenciar maiúsculas.
	// Campos de lista casam quando algum item casa (ex: tags).
	Equals map[string]string
	// Search procura a substring em todos os campos string (e listas de string).
	Search string
}

func (f Filter) empty() bool {
	return len(f.Equals) == 0 && strings.TrimSpace(f.Search) == ""
}

// FilterDocuments devolve um novo slice só com os documentos que casam.
func FilterDocuments(docs []Document, f Filter) []Document {
	if f.empty() {
		return docs
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if matchesEquals(d, f.Equals) && (search == "" || matchesSearch(d, search)) {
			out = append(out, d)
		}
	}
	return out
}

func matchesEquals(d Document, eq map[string]string) bool {
	for field, want := range eq {
		v, ok := sortValue(d, field)
		if !ok || !valueEquals(v, want) {
			return false
		}
	}
	return true
}

func valueEquals(v any, want string) bool {
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if valueEquals(item, want) {
				return true
			}
		}
		return false
	}
	if list, ok := v.([]string); ok {
		for _, item := range list {
			if strings.EqualFold(item, want) {
				return true
			}
		}
		return false
	}
	return strings.EqualFold(toString(v), want)
}

func matchesSearch(d Document, needle string) bool {
	for _, v := range d.Data {
		if containsText(v, needle) {
			return true
		}
	}
	return false
}

func containsText(v any, needle string) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(t), needle)
	case []string:
		for _, s := range t {
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
	case []any:
		for _, item := range t {
			if containsText(item, needle) {
				return true
			}
		}
	}
	return false
}

// Paginate recorta docs em [offset, offset+limit). limit <= 0 devolve tudo a
// partir de offset.
func Paginate(docs []Document, offset, limit int) []Document {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(docs) {
		return []Document{}
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}
