package models

type Announcement struct {
	ID    int    `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body" json:"body"`
	Date  string `bson:"date" json:"date"`
}
