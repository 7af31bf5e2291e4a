package domain

type MenuItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type DishInput struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
}

type CartItemInput struct {
	UserID   int64 `json:"user_id"`
	DishID   int64 `json:"dish_id"`
	Quantity int64 `json:"quantity"`
}

type CartLine struct {
	DishID   int64   `json:"dish_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Total    float64 `json:"total"`
}

type Cart struct {
	CartID int64      `json:"cart_id"`
	Items  []CartLine `json:"cart"`
	Total  float64    `json:"total"`
}

type OrderInput struct {
	UserID    int64  `json:"user_id"`
	AddressID int64  `json:"address_id"`
	Status    string `json:"status"`
	WaiterID  int64  `json:"waiter_id,omitempty"`
}

type OrderReceipt struct {
	Status  string  `json:"status"`
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
	Items   int     `json:"items"`
}

type Order struct {
	OrderID    int64       `json:"order_id"`
	UserID     int64       `json:"user_id"`
	AddressID  int64       `json:"address_id"`
	Status     string      `json:"status"`
	TotalPrice float64     `json:"total_price"`
	CreatedAt  string      `json:"created_at"`
	Items      []OrderLine `json:"items,omitempty"`
}

type OrderLine struct {
	DishID   int64   `json:"dish_id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type Table struct {
	ID       int64  `json:"table_id"`
	Number   int64  `json:"number"`
	Seats    int64  `json:"seats"`
	Location string `json:"location"`
}

type TableAvailability struct {
	Table
	IsAvailable bool `json:"is_available"`
}

type FreeTablesQuery struct {
	Datetime        string
	DurationMinutes int
	MinSeats        int64
	Location        string
}

type BookingInput struct {
	UserID   int64  `json:"user_id"`
	Datetime string `json:"datetime"`
	TableID  int64  `json:"table_id"`
	Guests   int64  `json:"guests"`
	Comment  string `json:"comment"`
}

type BookedTable struct {
	ID       int64  `json:"id"`
	Number   int64  `json:"number"`
	Seats    int64  `json:"seats"`
	Location string `json:"location"`
}

type Booking struct {
	BookingID int64       `json:"booking_id"`
	UserID    int64       `json:"user_id"`
	Datetime  string      `json:"datetime"`
	Guests    int64       `json:"guests"`
	Table     BookedTable `json:"table"`
	Comment   string      `json:"comment"`
	CreatedAt string      `json:"created_at"`
}

type ReviewInput struct {
	UserID       int64  `json:"user_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	DishID       *int64 `json:"dish_id"`
	IsRestaurant bool   `json:"is_restaurant"`
}

type Review struct {
	ReviewID   int64  `json:"review_id"`
	UserID     int64  `json:"user_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	DishID     int64  `json:"dish_id,omitempty"`
	Restaurant bool   `json:"restaurant,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// Rating is an average over reviews; AvgRating is nil when there are none.
type Rating struct {
	DishID      int64    `json:"dish_id,omitempty"`
	AvgRating   *float64 `json:"avg_rating"`
	ReviewCount int      `json:"review_count"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Street   string `json:"street"`
	House    string `json:"house"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Flat     string `json:"flat"`
}

type LoginInput struct {
	Phone string `json:"phone"`
}

type LoginResult struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type User struct {
	UserID          int64   `json:"user_id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	City            string  `json:"city"`
	Street          string  `json:"street"`
	House           string  `json:"house"`
	Building        string  `json:"building"`
	Floor           string  `json:"floor"`
	Flat            string  `json:"flat"`
	LoyaltyDiscount float64 `json:"loyalty_discount"`
	LoyaltyTotal    float64 `json:"loyalty_total"`
	CreatedAt       string  `json:"created_at"`
}

type NewsInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
	Tags     string `json:"tags"`
}

type News struct {
	NewsID    int64  `json:"news_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	ImageURL  string `json:"image_url"`
	Tags      string `json:"tags"`
	CreatedAt string `json:"created_at"`
}

type ContactMessageInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// EntitySummary is one line of the generic admin listing; absent attributes stay null.
type EntitySummary struct {
	ID        int64   `json:"ent_instance_id"`
	Name      *string `json:"name"`
	Title     *string `json:"title"`
	CreatedAt *string `json:"created_at"`
}

type EntityUpdate struct {
	Fields map[string]interface{} `json:"fields"`
}

type DailyOrders struct {
	Day        string `json:"day"`
	OrderCount int    `json:"order_count"`
}

type PopularDish struct {
	DishID        int64 `json:"dish_id"`
	TotalQuantity int64 `json:"total_quantity"`
}

type DailyRevenue struct {
	Day          string  `json:"day"`
	TotalRevenue float64 `json:"total_revenue"`
}

type BookingSlot struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Count int    `json:"count"`
}

type LoyaltyEntry struct {
	UserID          int64   `json:"user_id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	LoyaltyTotal    float64 `json:"loyalty_total"`
	LoyaltyDiscount float64 `json:"loyalty_discount"`
}

type StaffShifts struct {
	UserID     int64   `json:"user_id"`
	TotalHours float64 `json:"total_hours"`
	ShiftCount int     `json:"shift_count"`
}

type StaffRevenue struct {
	WaiterID     int64   `json:"waiter_id"`
	TotalRevenue float64 `json:"total_revenue"`
}
