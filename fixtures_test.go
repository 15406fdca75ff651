package storefront

func samplePhones() []Product {
	return []Product{
		{
			ID: "1", Name: "iPhone 15 Pro Max", Brand: "Apple", Price: 1199, OriginalPrice: 1299, Discount: 8,
			Rating: 4.8, Reviews: 2341, InStock: true, Category: CategoryFlagship,
			Specs:  Specs{RAM: "8GB", Storage: "256GB", Processor: "A17 Pro Bionic", Network: "5G"},
			Colors: []string{"Natural Titanium", "Blue Titanium", "White Titanium", "Black Titanium"},
		},
		{
			ID: "2", Name: "Samsung Galaxy S24 Ultra", Brand: "Samsung", Price: 1299, OriginalPrice: 1399, Discount: 7,
			Rating: 4.7, Reviews: 1876, InStock: true, Category: CategoryFlagship,
			Specs:  Specs{RAM: "12GB", Storage: "512GB", Processor: "Snapdragon 8 Gen 3", Network: "5G"},
			Colors: []string{"Titanium Black", "Titanium Gray"},
		},
		{
			ID: "3", Name: "Google Pixel 8 Pro", Brand: "Google", Price: 999, OriginalPrice: 1099, Discount: 9,
			Rating: 4.6, Reviews: 1234, InStock: true, Category: CategoryPremium,
			Specs:  Specs{RAM: "12GB", Storage: "256GB", Processor: "Google Tensor G3", Network: "5G"},
			Colors: []string{"Obsidian", "Porcelain", "Bay"},
		},
		{
			ID: "4", Name: "OnePlus 12", Brand: "OnePlus", Price: 799, OriginalPrice: 899, Discount: 11,
			Rating: 4.5, Reviews: 987, InStock: true, Category: CategoryPremium,
			Specs:  Specs{RAM: "16GB", Storage: "512GB", Processor: "Snapdragon 8 Gen 3", Network: "5G"},
			Colors: []string{"Silky Black", "Flowy Emerald"},
		},
		{
			ID: "5", Name: "Xiaomi 14 Ultra", Brand: "Xiaomi", Price: 1149, OriginalPrice: 1249, Discount: 8,
			Rating: 4.4, Reviews: 756, InStock: true, Category: CategoryFlagship,
			Specs:  Specs{RAM: "16GB", Storage: "512GB", Processor: "Snapdragon 8 Gen 3", Network: "5G"},
			Colors: []string{"Black", "White", "Blue"},
		},
		{
			ID: "6", Name: "Nothing Phone (2a)", Brand: "Nothing", Price: 349, OriginalPrice: 399, Discount: 13,
			Rating: 4.2, Reviews: 543, InStock: true, Category: CategoryMidRange,
			Specs:  Specs{RAM: "8GB", Storage: "128GB", Processor: "Dimensity 7200 Pro", Network: "5G"},
			Colors: []string{"Black", "White"},
		},
	}
}

func sampleCatalog() *Catalog {
	return MustCatalog(samplePhones()...)
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
