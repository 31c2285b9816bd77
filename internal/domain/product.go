package domain

type Product struct {
	ID    int64
	Title string
	Price Money
	Image string

	// Amount is the quantity held in the cart, at least 1 while present.
	Amount int
}

type Stock struct {
	ProductID int64
	Amount    int
}
