package listing

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
)

func rating(v float64) *float64 { return &v }

func product(id int, title, desc, price string, r *float64) catalog.Product {
	return catalog.Product{ID: id, Title: title, Description: desc, Price: decimal.RequireFromString(price), Rating: r}
}

func ids(ps []catalog.Product) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func sample() []catalog.Product {
	return []catalog.Product{
		product(1, "iPhone 9", "An apple mobile", "549", rating(4.69)),
		product(2, "Samsung Universe", "Galaxy phone", "1249", rating(4.09)),
		product(3, "apple watch", "Smart watch", "199", nil),
		product(4, "Zebra Case", "Phone case by Apple", "19.99", rating(4.69)),
		product(5, "Charger", "USB-C", "549", rating(3)),
	}
}

func TestDerive(t *testing.T) {
	t.Run("EmptyQueryNoSort_PreservesOrder", func(t *testing.T) {
		in := sample()
		require.Equal(t, []int{1, 2, 3, 4, 5}, ids(Derive(in, "", SortNone)))
	})

	t.Run("Filter_CaseInsensitiveOverTitleAndDescription", func(t *testing.T) {
		require.Equal(t, []int{1, 3, 4}, ids(Derive(sample(), "APPLE", SortNone)))
	})

	t.Run("Filter_NoMatchIsEmptyNotNil", func(t *testing.T) {
		out := Derive(sample(), "tractor", SortNone)
		require.NotNil(t, out)
		require.Empty(t, out)
	})

	t.Run("PriceAsc_StableOnTies", func(t *testing.T) {
		require.Equal(t, []int{4, 3, 1, 5, 2}, ids(Derive(sample(), "", SortPriceAsc)))
	})

	t.Run("PriceAsc_TwoItems", func(t *testing.T) {
		in := []catalog.Product{
			product(1, "A", "", "10", nil),
			product(2, "B", "", "5", nil),
		}
		out := Derive(in, "", SortPriceAsc)
		require.Equal(t, []int{2, 1}, ids(out))
		require.Equal(t, "B", out[0].Title)
		require.Equal(t, []int{1, 2}, ids(in))
	})

	t.Run("PriceAsc_ReversesPriceDescWithoutTies", func(t *testing.T) {
		in := []catalog.Product{
			product(1, "A", "", "10", nil),
			product(2, "B", "", "5", nil),
			product(3, "C", "", "7.25", nil),
			product(4, "D", "", "0.99", nil),
			product(5, "E", "", "1249", nil),
		}
		asc := ids(Derive(in, "", SortPriceAsc))
		desc := ids(Derive(in, "", SortPriceDesc))
		slices.Reverse(desc)
		require.Equal(t, []int{4, 2, 3, 1, 5}, asc)
		require.Equal(t, asc, desc)
	})

	t.Run("PriceDesc_StableOnTies", func(t *testing.T) {
		require.Equal(t, []int{2, 1, 5, 3, 4}, ids(Derive(sample(), "", SortPriceDesc)))
	})

	t.Run("RatingDesc_MissingRatingIsZero", func(t *testing.T) {
		require.Equal(t, []int{1, 4, 2, 5, 3}, ids(Derive(sample(), "", SortRatingDesc)))
	})

	t.Run("TitleAsc_IgnoresCase", func(t *testing.T) {
		require.Equal(t, []int{3, 5, 1, 2, 4}, ids(Derive(sample(), "", SortTitleAsc)))
	})

	t.Run("TitleAsc_TwoItems", func(t *testing.T) {
		in := []catalog.Product{product(1, "B", "", "1", nil), product(2, "A", "", "1", nil)}
		out := Derive(in, "", SortTitleAsc)
		require.Equal(t, "A", out[0].Title)
		require.Equal(t, "B", out[1].Title)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		in := sample()
		_ = Derive(in, "a", SortTitleAsc)
		require.Equal(t, sample(), in)
	})

	t.Run("OutputIsSubsetOfInput", func(t *testing.T) {
		in := sample()
		byID := map[int]bool{}
		for _, p := range in {
			byID[p.ID] = true
		}
		for _, key := range []SortKey{SortNone, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortTitleAsc} {
			for _, q := range []string{"", "phone", "x"} {
				out := Derive(in, q, key)
				require.LessOrEqual(t, len(out), len(in))
				for _, p := range out {
					require.True(t, byID[p.ID])
				}
			}
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := Derive(sample(), "phone", SortPriceDesc)
		twice := Derive(once, "phone", SortPriceDesc)
		require.Equal(t, ids(once), ids(twice))
	})
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]SortKey{
		"":            SortNone,
		"price-asc":   SortPriceAsc,
		"price-desc":  SortPriceDesc,
		"rating-desc": SortRatingDesc,
		"title-asc":   SortTitleAsc,
		"bogus":       SortNone,
		" title-asc ": SortTitleAsc,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseSortKey(in), in)
	}
}

func TestNewEngine_FallsBackToEnglish(t *testing.T) {
	require.Equal(t, NewEngine("en").tag, NewEngine("not a tag!!").tag)
}
