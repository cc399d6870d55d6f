package models

type Payment struct {
	ID         int     `bson:"id" json:"id"`
	DueID      int     `bson:"dueId" json:"dueId"`
	UserID     int     `bson:"userId" json:"userId"`
	Datetime   string  `bson:"datetime" json:"datetime"`
	CardMasked string  `bson:"cardMasked" json:"cardMasked"`
	Amount     float64 `bson:"amount" json:"amount"`
}

// Receipt is returned to the payer after a successful payment.
type Receipt struct {
	PaymentID       int     `json:"paymentId"`
	Period          string  `json:"period"`
	ApartmentNumber int     `json:"apartmentNumber"`
	Amount          float64 `json:"amount"`
	Datetime        string  `json:"datetime"`
	CardMasked      string  `json:"cardMasked"`
}
