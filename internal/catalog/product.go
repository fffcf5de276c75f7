package catalog

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Product mirrors the remote catalog record. It is read-only on our side.
type Product struct {
	ID                 int             `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage *float64        `json:"discountPercentage,omitempty"`
	Rating             *float64        `json:"rating,omitempty"`
	Stock              int             `json:"stock"`
	Brand              string          `json:"brand,omitempty"`
	Thumbnail          string          `json:"thumbnail,omitempty"`
	Images             []string        `json:"images,omitempty"`
}

// ImageURL prefers the thumbnail and falls back to the first image.
func (p Product) ImageURL() string {
	if s := strings.TrimSpace(p.Thumbnail); s != "" {
		return s
	}
	for _, im := range p.Images {
		if s := strings.TrimSpace(im); s != "" {
			return s
		}
	}
	return ""
}

// RatingOrZero treats an absent rating as 0.
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// Category is a catalog category. The API returns either bare slugs or
// {slug, name, url} objects depending on the endpoint version.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var slug string
	if err := json.Unmarshal(b, &slug); err == nil {
		c.Slug = slug
		c.Name = slug
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Category(p)
	if c.Slug == "" {
		c.Slug = c.Name
	}
	if c.Name == "" {
		c.Name = c.Slug
	}
	return nil
}

// Label renders a slug for display: dashes become spaces.
func (c Category) Label() string {
	return strings.ReplaceAll(c.Name, "-", " ")
}
