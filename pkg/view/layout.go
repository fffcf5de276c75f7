package view

// Header carries what every page shows at the top.
type Header struct {
	CartCount     int
	WishlistCount int
	Theme         string
}

func (h Header) Light() bool { return h.Theme == "light" }

type NavLink struct {
	Slug   string
	Label  string
	Active bool
}

type NavGroup struct {
	Name  string
	Links []NavLink
}

type Nav struct {
	HomeActive bool
	Groups     []NavGroup
	Other      []NavLink
}

type Layout struct {
	Title     string
	Header    Header
	Nav       Nav
	Flash     *Flash
	RequestID string
}

type HomePage struct {
	Layout     Layout
	QuickChips []NavLink
	Category   string
	Toolbar    Toolbar
	Grid       Grid
}

type ListingPage struct {
	Layout   Layout
	Category string
	Toolbar  Toolbar
	Grid     Grid
}

type ErrorPage struct {
	Layout  Layout
	Status  int
	Message string
}
