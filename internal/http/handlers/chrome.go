package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/middleware"
	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

// CategoryLister is the part of the catalog client the navigation needs.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

// Chrome builds the layout shared by every full page: header counts, theme,
// category navigation and the pending flash.
type Chrome struct {
	Nav        config.Navigation
	Categories CategoryLister
	Logger     *slog.Logger
}

// Layout marks category as the active nav entry. home highlights "Home".
func (ch *Chrome) Layout(c *gin.Context, title, category string, home bool) view.Layout {
	return view.Layout{
		Title:     title,
		Header:    middleware.GetHeader(c),
		Nav:       ch.nav(c.Request.Context(), category, home),
		Flash:     middleware.GetFlash(c),
		RequestID: middleware.GetRequestID(c),
	}
}

// QuickChips returns the configured shortcut categories.
func (ch *Chrome) QuickChips() []view.NavLink {
	out := make([]view.NavLink, 0, len(ch.Nav.QuickChips))
	for _, s := range ch.Nav.QuickChips {
		out = append(out, navLink(s, ""))
	}
	return out
}

// nav lists the configured groups first, then every remote category that no
// group claims. If the category list cannot be fetched only the groups show.
func (ch *Chrome) nav(ctx context.Context, active string, home bool) view.Nav {
	n := view.Nav{HomeActive: home}
	for _, g := range ch.Nav.Groups {
		ng := view.NavGroup{Name: g.Name}
		for _, s := range g.Categories {
			ng.Links = append(ng.Links, navLink(s, active))
		}
		n.Groups = append(n.Groups, ng)
	}
	if ch.Categories == nil {
		return n
	}

	cats, err := ch.Categories.ListCategories(ctx)
	if err != nil {
		ch.logger().LogAttrs(ctx, slog.LevelWarn, "categories_unavailable",
			slog.String("err", err.Error()),
		)
		return n
	}
	for _, cat := range cats {
		if cat.Slug == "" || ch.Nav.GroupOf(cat.Slug) != "" {
			continue
		}
		n.Other = append(n.Other, navLink(cat.Slug, active))
	}
	return n
}

func (ch *Chrome) logger() *slog.Logger {
	if ch.Logger == nil {
		return slog.Default()
	}
	return ch.Logger
}

func navLink(slug, active string) view.NavLink {
	return view.NavLink{Slug: slug, Label: view.CategoryLabel(slug), Active: active != "" && slug == active}
}
