package service

import (
	"context"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

type MenuServiceInterface interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
}

type AdminServiceInterface interface {
	CreateDish(ctx context.Context, in domain.DishInput) (int64, error)
	UpdateDish(ctx context.Context, id int64, in domain.DishInput) error
	DeleteDish(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, name string) (int64, error)
	DeleteCategory(ctx context.Context, name string) error
	GetEntity(ctx context.Context, entityType string, id int64) (eav.Record, error)
	UpdateEntity(ctx context.Context, entityType string, id int64, fields map[string]interface{}) error
	DeleteEntity(ctx context.Context, entityType string, id int64) error
	ListEntities(ctx context.Context, entityType string) ([]domain.EntitySummary, error)
	RegisterEntityType(ctx context.Context, t domain.EntityType) error
	DeleteEntityType(ctx context.Context, name string) error
	ListEntityTypes(ctx context.Context) ([]domain.EntityType, error)
}

type CartServiceInterface interface {
	AddItem(ctx context.Context, in domain.CartItemInput) (int64, error)
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, dishID int64) (int64, error)
}

type OrderServiceInterface interface {
	Place(ctx context.Context, in domain.OrderInput) (*domain.OrderReceipt, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	QRCode(ctx context.Context, orderID int64) ([]byte, error)
}

type BookingServiceInterface interface {
	Create(ctx context.Context, in domain.BookingInput) (int64, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type TableServiceInterface interface {
	List(ctx context.Context) ([]domain.Table, error)
	Availability(ctx context.Context, datetime string) ([]domain.TableAvailability, error)
	Free(ctx context.Context, query domain.FreeTablesQuery) ([]domain.Table, error)
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, in domain.ReviewInput) (int64, error)
	ListForDish(ctx context.Context, dishID int64) ([]domain.Review, error)
	ListForRestaurant(ctx context.Context) ([]domain.Review, error)
	DishRating(ctx context.Context, dishID int64) (domain.Rating, error)
	RestaurantRating(ctx context.Context) (domain.Rating, error)
}

type UserServiceInterface interface {
	Register(ctx context.Context, in domain.RegisterInput) (int64, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Login(ctx context.Context, phone string) (*domain.LoginResult, error)
}

type NewsServiceInterface interface {
	Create(ctx context.Context, in domain.NewsInput) (int64, error)
	List(ctx context.Context) ([]domain.News, error)
	Get(ctx context.Context, id int64) (*domain.News, error)
}

type ContactServiceInterface interface {
	Info(ctx context.Context) (map[string]string, error)
	SubmitMessage(ctx context.Context, in domain.ContactMessageInput) (int64, error)
}

type AnalyticsServiceInterface interface {
	DailyOrders(ctx context.Context) ([]domain.DailyOrders, error)
	PopularDishes(ctx context.Context) ([]domain.PopularDish, error)
	RevenueByDay(ctx context.Context) ([]domain.DailyRevenue, error)
	BookingHeatmap(ctx context.Context) ([]domain.BookingSlot, error)
	UserLoyalty(ctx context.Context) ([]domain.LoyaltyEntry, error)
	StaffShifts(ctx context.Context) ([]domain.StaffShifts, error)
	StaffRevenue(ctx context.Context) ([]domain.StaffRevenue, error)
}

// RatingCache is optional; a nil cache makes every rating read hit the store.
type RatingCache interface {
	DishKey(dishID int64) string
	RestaurantKey() string
	Get(ctx context.Context, key string) (*domain.Rating, error)
	Set(ctx context.Context, key string, rating domain.Rating) error
	Invalidate(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type LoyaltyAccruer interface {
	AccrueLoyalty(ctx context.Context, userID, orderID int64, amount float64) error
}

type RatingRefresher interface {
	RefreshDishRating(ctx context.Context, dishID int64) (domain.Rating, error)
	RefreshRestaurantRating(ctx context.Context) (domain.Rating, error)
}

var (
	_ MenuServiceInterface      = (*MenuService)(nil)
	_ AdminServiceInterface     = (*AdminService)(nil)
	_ CartServiceInterface      = (*CartService)(nil)
	_ OrderServiceInterface     = (*OrderService)(nil)
	_ BookingServiceInterface   = (*BookingService)(nil)
	_ TableServiceInterface     = (*TableService)(nil)
	_ ReviewServiceInterface    = (*ReviewService)(nil)
	_ UserServiceInterface      = (*UserService)(nil)
	_ NewsServiceInterface      = (*NewsService)(nil)
	_ ContactServiceInterface   = (*ContactService)(nil)
	_ AnalyticsServiceInterface = (*AnalyticsService)(nil)
	_ LoyaltyAccruer            = (*UserService)(nil)
	_ RatingRefresher           = (*ReviewService)(nil)
)
