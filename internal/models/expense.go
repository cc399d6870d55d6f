package models

type Expense struct {
	ID          int     `bson:"id" json:"id"`
	Title       string  `bson:"title" json:"title"`
	Amount      float64 `bson:"amount" json:"amount"`
	Date        string  `bson:"date" json:"date"`
	Description string  `bson:"description" json:"description"`
}
