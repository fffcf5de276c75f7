// Package listing derives the visible product sequence from a cached
// listing, a search query and a sort key. Everything here is pure.
package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
	SortTitleAsc   SortKey = "title-asc"
)

// SortOption is a selectable entry for the sort control.
type SortOption struct {
	Key   SortKey
	Label string
}

var SortOptions = []SortOption{
	{SortNone, "Sort by"},
	{SortPriceAsc, "Price: Low to High"},
	{SortPriceDesc, "Price: High to Low"},
	{SortRatingDesc, "Rating: High to Low"},
	{SortTitleAsc, "Title: A to Z"},
}

// ParseSortKey maps unknown input to SortNone.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortPriceAsc, SortPriceDesc, SortRatingDesc, SortTitleAsc:
		return k
	default:
		return SortNone
	}
}

// Engine carries the collation language used for title ordering.
type Engine struct {
	tag language.Tag
}

func NewEngine(lang string) Engine {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil || lang == "" {
		tag = language.English
	}
	return Engine{tag: tag}
}

// Derive returns a new slice: products whose title or description contains
// query (case-insensitive), ordered by key. The input is never mutated and
// equal elements keep their upstream order.
func (e Engine) Derive(products []catalog.Product, query string, key SortKey) []catalog.Product {
	out := Filter(products, query)

	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int { return b.Price.Cmp(a.Price) })
	case SortRatingDesc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			ra, rb := a.RatingOrZero(), b.RatingOrZero()
			switch {
			case ra > rb:
				return -1
			case ra < rb:
				return 1
			}
			return 0
		})
	case SortTitleAsc:
		// collate.Collator is not safe for concurrent use.
		col := collate.New(e.tag, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
	return out
}

// Derive uses the default English collation.
func Derive(products []catalog.Product, query string, key SortKey) []catalog.Product {
	return NewEngine("en").Derive(products, query, key)
}

// Filter keeps products whose "title description" contains query, ignoring
// case. An empty query keeps everything.
func Filter(products []catalog.Product, query string) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	if query == "" {
		return append(out, products...)
	}
	q := strings.ToLower(query)
	for _, p := range products {
		hay := strings.ToLower(p.Title + " " + p.Description)
		if strings.Contains(hay, q) {
			out = append(out, p)
		}
	}
	return out
}
