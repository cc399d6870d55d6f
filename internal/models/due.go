package models

type Due struct {
	ID          int     `bson:"id" json:"id"`
	ApartmentID int     `bson:"apartmentId" json:"apartmentId"`
	Period      string  `bson:"period" json:"period"` // YYYY-MM
	Amount      float64 `bson:"amount" json:"amount"`
	Paid        int     `bson:"paid" json:"paid"`
	Description string  `bson:"description" json:"description"`
}

func (d *Due) IsPaid() bool { return d.Paid != 0 }

type DueView struct {
	Due
	ApartmentNumber *int `json:"apartmentNumber"`
}
