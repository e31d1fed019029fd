package off

import "github.com/tidwall/gjson"

// Product is the subset of an Open Food Facts record that the
// application consumes. The upstream payload carries far more fields;
// everything else is ignored.
type Product struct {
	Code           string
	Name           string
	GenericName    string
	ImageSmallURL  string
	ImageFrontURL  string
	ImageURL       string
	Brands         string
	EcoscoreGrade  string
	Nutriments     map[string]interface{}
	CategoriesTags []string
	Packaging      string
}

// DisplayName returns the product name, falling back to the generic
// name when the record has none.
func (p Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.GenericName
}

// Image returns the preferred image URL: small front image first, then
// the full front image, then the plain image field.
func (p Product) Image() string {
	if p.ImageSmallURL != "" {
		return p.ImageSmallURL
	}
	if p.ImageFrontURL != "" {
		return p.ImageFrontURL
	}
	return p.ImageURL
}

func productFromJSON(raw gjson.Result) Product {
	p := Product{
		Code:          raw.Get("code").String(),
		Name:          raw.Get("product_name").String(),
		GenericName:   raw.Get("generic_name").String(),
		ImageSmallURL: raw.Get("image_front_small_url").String(),
		ImageFrontURL: raw.Get("image_front_url").String(),
		ImageURL:      raw.Get("image_url").String(),
		Brands:        raw.Get("brands").String(),
		EcoscoreGrade: raw.Get("ecoscore_grade").String(),
		Packaging:     raw.Get("packaging").String(),
	}
	if n := raw.Get("nutriments"); n.IsObject() {
		if m, ok := n.Value().(map[string]interface{}); ok {
			p.Nutriments = m
		}
	}
	for _, tag := range raw.Get("categories_tags").Array() {
		p.CategoriesTags = append(p.CategoriesTags, tag.String())
	}
	return p
}

func productsFromJSON(body string) []Product {
	results := gjson.Get(body, "products").Array()
	out := make([]Product, 0, len(results))
	for _, r := range results {
		out = append(out, productFromJSON(r))
	}
	return out
}
