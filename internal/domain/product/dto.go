package product

// CreateProductRequest for listing a new product
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Tags        []string `json:"tags"`
}

// ProductResponse is a product together with image availability, which
// lives on disk rather than in the database.
type ProductResponse struct {
	Product
	ImageExists    bool   `json:"imageExists"`
	ImageExtension string `json:"imageExtension,omitempty"`
}
