package domain

import "time"

// BoatStatus is the operational state of a boat.
type BoatStatus string

const (
	BoatActive      BoatStatus = "active"
	BoatMaintenance BoatStatus = "maintenance"
	BoatInactive    BoatStatus = "inactive"
)

// Valid reports whether s is a known boat status.
func (s BoatStatus) Valid() bool {
	return s == BoatActive || s == BoatMaintenance || s == BoatInactive
}

// Boat is a physical vessel. Deletion is hard; reservations keep the id.
type Boat struct {
	ID        int64
	Name      string
	Capacity  int
	Status    BoatStatus
	CreatedAt time.Time
}

// StaffRole separates drivers from guides. The pools never mix.
type StaffRole string

const (
	RoleDriver StaffRole = "lanchero"
	RoleGuide  StaffRole = "guia"
)

// Valid reports whether r is a known staff role.
func (r StaffRole) Valid() bool {
	return r == RoleDriver || r == RoleGuide
}

// Staff is a driver (lanchero) or guide (guia). Deactivation is the only
// delete: historical assignments stay resolvable.
type Staff struct {
	ID        int64
	Name      string
	Role      StaffRole
	Phone     string
	Active    bool
	Notes     string
	CreatedAt time.Time
}

// SupplierCategory is the closed set of supplier kinds.
type SupplierCategory string

const (
	SupplierRestaurant SupplierCategory = "restaurant"
	SupplierTransport  SupplierCategory = "transport"
	SupplierHotel      SupplierCategory = "hotel"
	SupplierActivity   SupplierCategory = "activity"
	SupplierOther      SupplierCategory = "other"
)

// Valid reports whether c is a known supplier category.
func (c SupplierCategory) Valid() bool {
	switch c {
	case SupplierRestaurant, SupplierTransport, SupplierHotel, SupplierActivity, SupplierOther:
		return true
	}
	return false
}

// Supplier is a third-party contact. It carries no scheduling logic.
type Supplier struct {
	ID        int64
	Name      string
	Category  SupplierCategory
	Phone     string
	Email     string
	Website   string
	Instagram string
	Notes     string
	Active    bool
	CreatedAt time.Time
}

// DailyNote is the operational bulletin for one calendar date.
type DailyNote struct {
	Date      time.Time
	Content   string
	UpdatedBy string
	UpdatedAt time.Time
}
