// Package pages holds the storefront's pages and htmx partials. Each one is
// exposed as a templ.Component. Most are backed by the embedded html
// templates; small self-polling fragments are plain templ components.
package pages

import (
	"context"
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

//go:embed *.gohtml
var files embed.FS

var tmpl = template.Must(template.New("pages").Funcs(template.FuncMap{
	"seq":          seq,
	"label":        view.CategoryLabel,
	"notification": NotificationStatus,
	"inline":       inline,
}).ParseFS(files, "*.gohtml"))

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup(name), data)
}

// inline renders c in place inside an html template.
func inline(c templ.Component) (template.HTML, error) {
	return templ.ToGoHTML(context.Background(), c)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func Home(p view.HomePage) templ.Component       { return component("home", p) }
func Listing(p view.ListingPage) templ.Component { return component("listing", p) }
func Grid(g view.Grid) templ.Component           { return component("grid", g) }
func Panel(p view.Panel) templ.Component         { return component("panel", p) }
func Counts(h view.Header) templ.Component       { return component("counts", h) }
func Error(p view.ErrorPage) templ.Component     { return component("error", p) }

func ProductDetail(d view.ProductDetail) templ.Component {
	return component("product_detail", d)
}

func ProductDetailError() templ.Component {
	return component("product_detail_error", nil)
}

func Checkout(p view.CheckoutPage) templ.Component {
	return component("checkout", p)
}

func Confirmation(p view.ConfirmationPage) templ.Component {
	return component("confirmation", p)
}
