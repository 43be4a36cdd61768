package domain

type Product struct {
	ID          string
	Title       string
	Description string
	Handle      string
	Vendor      string
	ProductType string
	Tags        []string
	Images      []Image
	Variants    []Variant
}

type Image struct {
	URL     string
	AltText string
}

type Variant struct {
	ID              string
	Title           string
	Price           Money
	CompareAtPrice  *Money
	Available       bool
	SelectedOptions []SelectedOption
}

type SelectedOption struct {
	Name  string
	Value string
}
