package models

const (
	StatusVacant   = 0
	StatusOccupied = 1
)

type Apartment struct {
	ID     int  `bson:"id" json:"id"`
	Number int  `bson:"number" json:"number"`
	UserID *int `bson:"userId" json:"userId"`
	Status int  `bson:"status" json:"status"`
}

// Occupied reports whether the apartment has a resident assigned.
func (a *Apartment) Occupied() bool {
	return a.Status == StatusOccupied && a.UserID != nil
}

// ApartmentView is an Apartment enriched with its occupant's contact details.
type ApartmentView struct {
	Apartment
	UserName  *string `json:"userName"`
	UserPhone *string `json:"userPhone"`
}
