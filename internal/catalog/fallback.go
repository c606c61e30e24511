package catalog

import "github.com/shopspring/decimal"

// FallbackProducts returns the built-in dataset served when the upstream
// store API is unreachable. It mirrors the core poster lineup so the
// storefront keeps rendering during outages.
func FallbackProducts() []Product {
	return []Product{
		{ID: 101, Name: "Canine Anatomy Poster", Price: decimal.RequireFromString("49.99"), Image: "/static/products/canine-anatomy.png"},
		{ID: 102, Name: "Feline Anatomy Poster", Price: decimal.RequireFromString("49.99"), Image: "/static/products/feline-anatomy.png"},
		{ID: 103, Name: "Equine Skeletal Chart", Price: decimal.RequireFromString("59.99"), Image: "/static/products/equine-skeletal.png"},
		{ID: 104, Name: "Small Mammal Dental Chart", Price: decimal.RequireFromString("39.99"), Image: "/static/products/small-mammal-dental.png"},
		{ID: 105, Name: "Avian Anatomy Poster", Price: decimal.RequireFromString("54.99"), Image: "/static/products/avian-anatomy.png"},
	}
}
