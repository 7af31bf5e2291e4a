package domain

import "time"

// Entity type tags stored in t_sys_attr_values.ent_name.
const (
	EntityDish           = "dish"
	EntityCategory       = "category"
	EntityUser           = "user"
	EntityCart           = "cart"
	EntityCartItem       = "cart_item"
	EntityOrder          = "order"
	EntityOrderItem      = "order_item"
	EntityBooking        = "booking"
	EntityTable          = "table"
	EntityReview         = "review"
	EntityNews           = "news"
	EntitySupportMessage = "support_message"
	EntityContactInfo    = "contact_info"
	EntityStaffShift     = "staff_shift"
)

const (
	BookingDuration     = 120 * time.Minute
	MaxFreeTablesWindow = 24 * time.Hour
	DefaultOrderStatus  = "pending"
	DefaultNewsType     = "news"
	InitialLoyaltyLevel = "3"
)

var NewsTypes = map[string]bool{
	"news":  true,
	"promo": true,
	"event": true,
}

// EntityType is one row of the t_sys_ent catalog.
type EntityType struct {
	Name string `json:"ent_name" db:"ent_name"`
	App  string `json:"ent_app" db:"ent_app"`
}
