package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"workshophub/internal/model"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	WorkshopNotFound      = "WORKSHOP_NOT_FOUND"
	WorkshopNotActive     = "WORKSHOP_NOT_ACTIVE"
	WorkshopSoldOut       = "WORKSHOP_SOLD_OUT"
	SeatsExhausted        = "SEATS_EXHAUSTED"
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
	RegistrationClosed    = "REGISTRATION_CLOSED"
	PaymentNotVerified    = "PAYMENT_NOT_VERIFIED"
	PaymentNotRequired    = "PAYMENT_NOT_REQUIRED"
	EmailTaken            = "EMAIL_TAKEN"
	UserNotFound          = "USER_NOT_FOUND"
	PermissionDenied      = "PERMISSION_DENIED"
	Unauthorized          = "UNAUTHORIZED"
	HasRegistrations      = "HAS_REGISTRATIONS"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type CreateWorkshopRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	Organizer   string    `json:"organizer" validate:"required,max=100"`
	Instructor  string    `json:"instructor" validate:"required,max=100"`
	EventDate   time.Time `json:"event_date" validate:"required,future"`
	EventTime   string    `json:"event_time"`
	Location    string    `json:"location" validate:"required,max=200"`
	City        string    `json:"city" validate:"required,max=50"`
	Category    string    `json:"category" validate:"required,max=50"`
	Level       string    `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Duration    string    `json:"duration"`
	Price       float64   `json:"price" validate:"gte=0"`
	MaxSeats    int       `json:"max_seats" validate:"required,positive"`
	Mode        string    `json:"mode" validate:"omitempty,oneof=manual automated"`
	Featured    bool      `json:"featured"`
	ImageURL    string    `json:"image_url"`
	Tags        []string  `json:"tags"`
}

type UpdateWorkshopRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	Organizer   string    `json:"organizer" validate:"required,max=100"`
	Instructor  string    `json:"instructor" validate:"required,max=100"`
	EventDate   time.Time `json:"event_date" validate:"required"`
	EventTime   string    `json:"event_time"`
	Location    string    `json:"location" validate:"required,max=200"`
	City        string    `json:"city" validate:"required,max=50"`
	Category    string    `json:"category" validate:"required,max=50"`
	Level       string    `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Duration    string    `json:"duration"`
	Price       float64   `json:"price" validate:"gte=0"`
	Mode        string    `json:"mode" validate:"omitempty,oneof=manual automated"`
	Status      string    `json:"status" validate:"omitempty,oneof=active cancelled completed"`
	Featured    bool      `json:"featured"`
	ImageURL    string    `json:"image_url"`
}

type SubmitRegistrationRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=upi bank_transfer card"`
	TransactionID string `json:"transaction_id"`
	UpiID         string `json:"upi_id"`
	ScreenshotRef string `json:"payment_screenshot_url"`
	Notes         string `json:"notes"`
}

type ReviewRegistrationRequest struct {
	AdminNotes string `json:"admin_notes"`
}

type WorkshopListResponse struct {
	Workshops  []model.Workshop `json:"workshops"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

type WorkshopInfoResponse struct {
	model.Workshop
	Registrations []model.Registration `json:"registrations,omitempty"`
}

type UploadResponse struct {
	Ref string `json:"ref"`
}

// RegistrationNoticeMessage is the payload published to the
// notification exchange whenever a registration changes state.
type RegistrationNoticeMessage struct {
	RegistrationID int64  `json:"registration_id"`
	WorkshopID     int64  `json:"workshop_id"`
	UserID         int64  `json:"user_id"`
	Status         string `json:"status"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func ConflictError(c *ginext.Context, code, desc string) {
	c.JSON(409, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func ForbiddenError(c *ginext.Context, desc string) {
	c.JSON(403, Response{
		Status: "error",
		Error: &Error{
			Code: PermissionDenied,
			Desc: desc,
		},
	})
}

func UnauthorizedError(c *ginext.Context, desc string) {
	c.JSON(401, Response{
		Status: "error",
		Error: &Error{
			Code: Unauthorized,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
