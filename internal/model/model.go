package model

import "time"

const (
	RoleUser       = "user"
	RoleEnterprise = "enterprise"
	RoleAdmin      = "admin"
)

const (
	WorkshopActive    = "active"
	WorkshopCancelled = "cancelled"
	WorkshopCompleted = "completed"
)

const (
	ModeManual    = "manual"
	ModeAutomated = "automated"
)

const (
	StatusPending        = "pending"
	StatusPaymentPending = "payment_pending"
	StatusConfirmed      = "confirmed"
	StatusRejected       = "rejected"
	StatusCancelled      = "cancelled"
)

const (
	PaymentNotRequired = "not_required"
	PaymentPending     = "pending"
	PaymentCompleted   = "completed"
	PaymentFailed      = "failed"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Workshop struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description,omitempty" json:"description,omitempty"`
	Organizer       string    `db:"organizer" json:"organizer"`
	OrganizerUserID *int64    `db:"organizer_user_id" json:"organizer_user_id,omitempty"`
	Instructor      string    `db:"instructor" json:"instructor"`
	EventDate       time.Time `db:"event_date" json:"event_date"`
	EventTime       string    `db:"event_time" json:"event_time"`
	Location        string    `db:"location" json:"location"`
	City            string    `db:"city" json:"city"`
	Category        string    `db:"category" json:"category"`
	Level           string    `db:"level" json:"level"`
	Duration        string    `db:"duration" json:"duration"`
	Price           float64   `db:"price" json:"price"`
	MaxSeats        int       `db:"max_seats" json:"max_seats"`
	AvailableSeats  int       `db:"available_seats" json:"available_seats"`
	Mode            string    `db:"mode" json:"mode"`
	Status          string    `db:"status" json:"status"`
	Featured        bool      `db:"featured" json:"featured"`
	ImageURL        string    `db:"image_url,omitempty" json:"image_url,omitempty"`
	Tags            []string  `db:"-" json:"tags,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type Registration struct {
	ID               int64      `db:"id" json:"id"`
	UserID           int64      `db:"user_id" json:"user_id"`
	WorkshopID       int64      `db:"workshop_id" json:"workshop_id"`
	RegistrationType string     `db:"registration_type" json:"registration_type"`
	Status           string     `db:"status" json:"status"`
	PaymentStatus    string     `db:"payment_status" json:"payment_status"`
	PaymentVerified  bool       `db:"payment_verified" json:"payment_verified"`
	PaymentMethod    string     `db:"payment_method,omitempty" json:"payment_method,omitempty"`
	TransactionID    string     `db:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	UpiID            string     `db:"upi_id,omitempty" json:"upi_id,omitempty"`
	ScreenshotRef    string     `db:"payment_screenshot_url,omitempty" json:"payment_screenshot_url,omitempty"`
	Notes            string     `db:"notes,omitempty" json:"notes,omitempty"`
	AdminNotes       string     `db:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	RegisteredAt     time.Time  `db:"registered_at" json:"registered_at"`
	ConfirmedAt      *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
}

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// InitialStatus resolves the entry state of a new registration from the
// workshop's price and mode. Only the free+automated path confirms
// without admin review.
func InitialStatus(price float64, mode string) (status, paymentStatus string) {
	if price == 0 {
		if mode == ModeAutomated {
			return StatusConfirmed, PaymentNotRequired
		}
		return StatusPending, PaymentNotRequired
	}
	if mode == ModeManual {
		return StatusPending, PaymentPending
	}
	return StatusPaymentPending, PaymentPending
}

// Awaiting reports whether a registration is still open for an admin
// approve/reject decision.
func Awaiting(status string) bool {
	return status == StatusPending || status == StatusPaymentPending
}

type DashboardStats struct {
	TotalWorkshops         int     `json:"total_workshops"`
	ActiveWorkshops        int     `json:"active_workshops"`
	TotalRegistrations     int     `json:"total_registrations"`
	ConfirmedRegistrations int     `json:"confirmed_registrations"`
	PendingRegistrations   int     `json:"pending_registrations"`
	TotalRevenue           float64 `json:"total_revenue"`
}

// WorkshopFilter drives the catalog listing. Zero values mean "no
// filtering" for every field.
type WorkshopFilter struct {
	Search          string
	Category        string
	City            string
	Level           string
	Status          string
	PriceFilter     string // "", "free", "paid"
	OrganizerUserID int64
	SortBy          string // "", "date", "price_low", "price_high", "title"
	Page            int
	PerPage         int
}
