package models

// Product is a catalog entry. Price is in whole currency units. A nil Stock
// means the product is not stock-tracked.
type Product struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Price    int64  `bson:"price" json:"price"`
	Stock    *int64 `bson:"stock,omitempty" json:"stock,omitempty"`
	Category string `bson:"category,omitempty" json:"category,omitempty"`
	Image    string `bson:"image,omitempty" json:"image,omitempty"`
}

func (p *Product) HasFiniteStock() bool {
	return p.Stock != nil
}
