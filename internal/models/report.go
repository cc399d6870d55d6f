package models

type Summary struct {
	TotalDues     float64 `json:"totalDues"`
	TotalPaid     float64 `json:"totalPaid"`
	TotalUnpaid   float64 `json:"totalUnpaid"`
	TotalExpenses float64 `json:"totalExpenses"`
	Net           float64 `json:"net"`
}

type MonthlyTotal struct {
	Period string  `json:"period"`
	Dues   float64 `json:"dues"`
	Paid   float64 `json:"paid"`
}
