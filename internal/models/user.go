package models

const (
	RoleAdmin    = "admin"
	RoleResident = "resident"
)

type User struct {
	ID           int    `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Phone        string `bson:"phone" json:"phone"`
	PasswordHash string `bson:"passwordHash,omitempty" json:"passwordHash,omitempty"`
	// Password is only ever read from documents created before hashing was
	// introduced; it is cleared on the first successful login.
	Password string `bson:"password,omitempty" json:"password,omitempty"`
	Role     string `bson:"role" json:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// PublicUser is the representation of a User that leaves the server.
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Phone: u.Phone, Role: u.Role}
}
