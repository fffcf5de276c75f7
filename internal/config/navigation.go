package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Navigation describes how categories are grouped on the storefront.
type Navigation struct {
	DefaultCategory string     `yaml:"default_category"`
	Groups          []NavGroup `yaml:"groups"`
	QuickChips      []string   `yaml:"quick_chips"`
}

type NavGroup struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

func DefaultNavigation() Navigation {
	return Navigation{
		DefaultCategory: "smartphones",
		Groups: []NavGroup{
			{Name: "Electronics", Categories: []string{"smartphones", "laptops", "tablets", "automotive"}},
			{Name: "Home", Categories: []string{"furniture", "home-decoration", "lighting", "kitchen-accessories"}},
			{Name: "Fashion", Categories: []string{
				"mens-shirts", "mens-shoes", "mens-watches", "womens-dresses", "womens-shoes",
				"womens-watches", "womens-bags", "womens-jewellery", "tops", "sunglasses",
			}},
		},
		QuickChips: []string{"smartphones", "laptops", "fragrances", "skincare", "groceries"},
	}
}

// LoadNavigation reads the YAML file at path. A missing file yields the defaults.
func LoadNavigation(path string) (Navigation, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultNavigation(), nil
	}
	if err != nil {
		return Navigation{}, fmt.Errorf("read navigation: %w", err)
	}
	return ParseNavigation(raw)
}

func ParseNavigation(raw []byte) (Navigation, error) {
	var nav Navigation
	if err := yaml.Unmarshal(raw, &nav); err != nil {
		return Navigation{}, fmt.Errorf("parse navigation: %w", err)
	}
	nav.DefaultCategory = strings.TrimSpace(nav.DefaultCategory)
	for i := range nav.Groups {
		nav.Groups[i].Categories = compact(nav.Groups[i].Categories)
	}
	nav.QuickChips = compact(nav.QuickChips)
	return nav, nil
}

// GroupOf returns the group name a category slug belongs to, or "".
func (n Navigation) GroupOf(slug string) string {
	for _, g := range n.Groups {
		for _, c := range g.Categories {
			if c == slug {
				return g.Name
			}
		}
	}
	return ""
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
