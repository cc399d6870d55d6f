package models

// Entity kinds used as keys of Meta.NextIDs.
const (
	KindUsers         = "users"
	KindApartments    = "apartments"
	KindDues          = "dues"
	KindPayments      = "payments"
	KindExpenses      = "expenses"
	KindAnnouncements = "announcements"
)

type Meta struct {
	NextIDs map[string]int `bson:"nextIds" json:"nextIds"`
}

// Ledger is the whole persisted document.
type Ledger struct {
	Users         []*User         `bson:"users" json:"users"`
	Apartments    []*Apartment    `bson:"apartments" json:"apartments"`
	Dues          []*Due          `bson:"dues" json:"dues"`
	Payments      []*Payment      `bson:"payments" json:"payments"`
	Expenses      []*Expense      `bson:"expenses" json:"expenses"`
	Announcements []*Announcement `bson:"announcements" json:"announcements"`
	Meta          Meta            `bson:"meta" json:"meta"`
}

func NewLedger() *Ledger {
	l := &Ledger{}
	l.Normalize()
	return l
}

// Normalize replaces nil collections so a freshly decoded document always
// serializes with empty arrays rather than null.
func (l *Ledger) Normalize() {
	if l.Users == nil {
		l.Users = []*User{}
	}
	if l.Apartments == nil {
		l.Apartments = []*Apartment{}
	}
	if l.Dues == nil {
		l.Dues = []*Due{}
	}
	if l.Payments == nil {
		l.Payments = []*Payment{}
	}
	if l.Expenses == nil {
		l.Expenses = []*Expense{}
	}
	if l.Announcements == nil {
		l.Announcements = []*Announcement{}
	}
	if l.Meta.NextIDs == nil {
		l.Meta.NextIDs = map[string]int{}
	}
}

func (l *Ledger) UserByID(id int) *User {
	for _, u := range l.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (l *Ledger) UserByPhone(phone string) *User {
	for _, u := range l.Users {
		if u.Phone == phone {
			return u
		}
	}
	return nil
}

func (l *Ledger) ApartmentByID(id int) *Apartment {
	for _, a := range l.Apartments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ApartmentsOf returns every apartment whose occupant is userID.
func (l *Ledger) ApartmentsOf(userID int) []*Apartment {
	var out []*Apartment
	for _, a := range l.Apartments {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (l *Ledger) DueByID(id int) *Due {
	for _, d := range l.Dues {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (l *Ledger) HasDue(apartmentID int, period string) bool {
	for _, d := range l.Dues {
		if d.ApartmentID == apartmentID && d.Period == period {
			return true
		}
	}
	return false
}

// MaxID returns the highest id present in the collection of the given kind.
func (l *Ledger) MaxID(kind string) int {
	max := 0
	track := func(id int) {
		if id > max {
			max = id
		}
	}
	switch kind {
	case KindUsers:
		for _, x := range l.Users {
			track(x.ID)
		}
	case KindApartments:
		for _, x := range l.Apartments {
			track(x.ID)
		}
	case KindDues:
		for _, x := range l.Dues {
			track(x.ID)
		}
	case KindPayments:
		for _, x := range l.Payments {
			track(x.ID)
		}
	case KindExpenses:
		for _, x := range l.Expenses {
			track(x.ID)
		}
	case KindAnnouncements:
		for _, x := range l.Announcements {
			track(x.ID)
		}
	}
	return max
}
