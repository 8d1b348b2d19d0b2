package store

import "github.com/atinyakov/QKart/internal/models"

// SeedProducts is the catalog the stub server starts with.
func SeedProducts() []models.Product {
	return []models.Product{
		{Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: 50, Rating: 5, ImageURL: "/images/unifactor-mens-running-shoes.png"},
		{Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: 100, Rating: 5, ImageURL: "/images/yonex-smash-badminton-racquet.png"},
		{Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4, ImageURL: "/images/tan-leatherette-weekender-duffle.png"},
		{Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5, ImageURL: "/images/the-minimalist-slim-leather-watch.png"},
		{Name: "Atan Noise Coral Luxe Watch", Category: "Electronics", Cost: 80, Rating: 4, ImageURL: "/images/atan-noise-coral-luxe-watch.png"},
		{Name: "Bonsai Dilig Table Lamp", Category: "Home & Kitchen", Cost: 40, Rating: 3, ImageURL: "/images/bonsai-dilig-table-lamp.png"},
		{Name: "Roadster Mens Polo T-Shirt", Category: "Fashion", Cost: 30, Rating: 4, ImageURL: "/images/roadster-mens-polo-t-shirt.png"},
		{Name: "Yarine Floor Lamp", Category: "Home & Kitchen", Cost: 120, Rating: 3, ImageURL: "/images/yarine-floor-lamp.png"},
		{Name: "Nivia Spikes Running Shoes", Category: "Sports", Cost: 35, Rating: 4, ImageURL: "/images/nivia-spikes-running-shoes.png"},
		{Name: "boAt Rockerz Wireless Headphones", Category: "Electronics", Cost: 45, Rating: 4, ImageURL: "/images/boat-rockerz-wireless-headphones.png"},
	}
}
