package domain

import "time"

// Product is a catalog entry as served by the backend. The storefront never
// owns product data; it only reads it.
type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Stock           int       `json:"stock"`
	Category        string    `json:"category"`
	Color           string    `json:"color"`
	Size            string    `json:"size"`
	ImageURL        string    `json:"image_url,omitempty"`
	AvailableSizes  []string  `json:"available_sizes,omitempty"`
	AvailableColors []string  `json:"available_colors,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProductRef is the snapshot of a product taken at the moment it was added
// to the cart. Price is captured here and never re-fetched afterwards; the
// cart does not track live price drift.
type ProductRef struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	ImageURL string  `json:"image_url,omitempty"`
}

// LineKey is the identity of a cart line. Two lines with the same key are
// the same logical entry and must never coexist.
type LineKey struct {
	ProductID int64
	Size      string
	Color     string
}

// Key returns the cart identity of the snapshot.
func (p ProductRef) Key() LineKey {
	return LineKey{ProductID: p.ID, Size: p.Size, Color: p.Color}
}

// Ref snapshots the catalog entry for the cart.
func (p Product) Ref() ProductRef {
	return ProductRef{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Size:     p.Size,
		Color:    p.Color,
		ImageURL: p.ImageURL,
	}
}
