package catalog

// Product is one storefront listing. The catalog is fixed at build time
// and never mutated at runtime; Price is in won, PriceLabel is whatever
// the merchandiser typed and is not derived from Price.
type Product struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Price      int64    `json:"price"`
	PriceLabel string   `json:"price_label"`
	CPU        string   `json:"cpu"`
	GPU        string   `json:"gpu"`
	RAM        string   `json:"ram"`
	Storage    string   `json:"storage"`
	Img        string   `json:"img"`
	Tags       []string `json:"tags,omitempty"`
}

// Products returns the catalog in featured order. Callers must not
// mutate the returned slice.
func Products() []Product {
	return fixed
}

// ByID returns the product with the given id.
func ByID(id string) (Product, bool) {
	for _, p := range fixed {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

var fixed = []Product{
	{
		ID:         "dk-01",
		Name:       "타이탄",
		Title:      "타이탄 게이밍 데스크탑",
		Price:      1990000,
		PriceLabel: "1,990,000원",
		CPU:        "인텔 i9-14900K",
		GPU:        "RTX 5090 32GB",
		RAM:        "64GB DDR5",
		Storage:    "2TB NVMe SSD",
		Img:        "🖥️",
		Tags:       []string{"신제품", "최고사양"},
	},
	{
		ID:         "dk-02",
		Name:       "스톰",
		Title:      "스톰 게이밍 데스크탑",
		Price:      1990000,
		PriceLabel: "1,990,000원",
		CPU:        "인텔 i7-14700K",
		GPU:        "RTX 4080 SUPER",
		RAM:        "32GB DDR5",
		Storage:    "1TB NVMe SSD",
		Img:        "🖥️",
		Tags:       []string{"인기"},
	},
	{
		ID:         "dk-03",
		Name:       "블레이드",
		Title:      "블레이드 미들타워",
		Price:      1990000,
		PriceLabel: "1,990,000원",
		CPU:        "인텔 i5-14600K",
		GPU:        "RTX 4070",
		RAM:        "32GB DDR4",
		Storage:    "1TB NVMe SSD",
		Img:        "🖥️",
		Tags:       []string{"가성비"},
	},
	{
		ID:         "dk-04",
		Name:       "코어",
		Title:      "코어 사무용 데스크탑",
		Price:      1990000,
		PriceLabel: "1,990,000원",
		CPU:        "인텔 i5-14400",
		GPU:        "RTX 4060",
		RAM:        "16GB DDR4",
		Storage:    "512GB NVMe SSD",
		Img:        "🖥️",
		Tags:       []string{"사무용"},
	},
	{
		ID:         "dk-05",
		Name:       "라이트",
		Title:      "라이트 슬림 PC",
		Price:      1990000,
		PriceLabel: "1,990,000원",
		CPU:        "인텔 i3-14100",
		GPU:        "인텔 UHD 730",
		RAM:        "16GB DDR4",
		Storage:    "512GB SSD",
		Img:        "🖥️",
	},
	{
		ID:         "dk-06",
		Name:       "베이직",
		Title:      "베이직 오피스 PC",
		Price:      1990000,
		PriceLabel: "1,990,000원",
		CPU:        "인텔 Pentium Gold G7400",
		GPU:        "Intel UHD 710",
		RAM:        "8GB DDR4",
		Storage:    "256GB SSD",
		Img:        "🖥️",
		Tags:       []string{"입문용"},
	},
}
