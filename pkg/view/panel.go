package view

type PanelRow struct {
	ID       int
	Title    string
	ImageURL string
	Price    string
}

// Panel is the cart or wishlist drawer.
type Panel struct {
	List      string // "cart" or "wishlist"
	Title     string
	Rows      []PanelRow
	Total     string
	ShowTotal bool
	Missing   int
	Empty     bool
}
