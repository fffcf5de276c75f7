package view

type ProductCard struct {
	ID       int
	Title    string
	ImageURL string
	Price    string
	Rating   string // "" when the product has no rating
	Discount string
}

type ProductDetail struct {
	ID          int
	Title       string
	ImageURL    string
	Description string
	Category    string
	Rating      string
	Price       string
}

// Grid is the product area of a listing page.
type Grid struct {
	Ticket       uint64
	Loading      bool
	Placeholders int
	Cards        []ProductCard
	Empty        bool
	Error        string
}

type SortOption struct {
	Value    string
	Label    string
	Selected bool
}

type Toolbar struct {
	Query    string
	Sort     []SortOption
	Debounce int // milliseconds
}
