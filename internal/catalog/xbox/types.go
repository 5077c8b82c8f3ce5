package xbox

// SiglsEntry is one element of the Game Pass sigls list. The first element
// of the list is a header describing the list itself and carries no id.
type SiglsEntry struct {
	ID string `json:"id,omitempty"`
}

// ProductsResponse is the display catalog answer for a batch of product ids.
type ProductsResponse struct {
	Products []Product `json:"Products"`
}

// Product is a single display catalog product.
type Product struct {
	ProductID           string              `json:"ProductId,omitempty"`
	LocalizedProperties []LocalizedProperty `json:"LocalizedProperties"`
}

// LocalizedProperty holds the market specific presentation of a product.
type LocalizedProperty struct {
	ProductTitle string `json:"ProductTitle"`
}
