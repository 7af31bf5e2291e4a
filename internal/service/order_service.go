package service

import (
	"context"
	"strings"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"

	"go.uber.org/zap"
)

type OrderService struct {
	store     eav.Store
	publisher EventPublisher
	qrEncoder QRGenerator
	logger    *zap.SugaredLogger
}

func NewOrderService(store eav.Store, publisher EventPublisher, qr QRGenerator, logger *zap.SugaredLogger) *OrderService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderService{store: store, publisher: publisher, qrEncoder: qr, logger: logger}
}

// Place turns the user's cart into an order in one transaction: the order,
// one order_item per cart line with the dish price copied as-is, and removal
// of the consumed cart lines.
func (s *OrderService) Place(ctx context.Context, in domain.OrderInput) (*domain.OrderReceipt, error) {
	if err := requirePositive("user_id", in.UserID); err != nil {
		return nil, err
	}
	if in.AddressID < 0 || in.WaiterID < 0 {
		return nil, validationf("address_id and waiter_id must not be negative")
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = domain.DefaultOrderStatus
	}

	receipt := &domain.OrderReceipt{Status: "success"}
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		if err := q.Lock(ctx, cartLockKey(in.UserID)); err != nil {
			return err
		}
		cartID, ok, err := eav.FindOne(ctx, q, domain.EntityCart, "user_id", eav.FormatInt(in.UserID))
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("cart is empty")
		}
		lines, err := readCartLines(ctx, q, cartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return notFoundf("cart is empty")
		}
		dishes, err := readDishes(ctx, q, lines)
		if err != nil {
			return err
		}

		var total float64
		prices := make([]string, len(lines))
		for i, line := range lines {
			dish, ok := dishes[line.dishID]
			if !ok {
				return notFoundf("dish %d", line.dishID)
			}
			price, err := dish.Float("price")
			if err != nil {
				return err
			}
			prices[i] = dish.String("price")
			total += price * float64(line.quantity)
		}

		fields := []eav.Field{
			{Name: "user_id", Value: eav.FormatInt(in.UserID)},
			{Name: "address_id", Value: eav.FormatInt(in.AddressID)},
			{Name: "status", Value: status},
			{Name: "total_price", Value: eav.FormatFloat(total)},
			{Name: "created_at", Value: eav.FormatTime(time.Now())},
		}
		if in.WaiterID > 0 {
			fields = append(fields, eav.Field{Name: "waiter_id", Value: eav.FormatInt(in.WaiterID)})
		}
		orderID, err := eav.Create(ctx, q, domain.EntityOrder, fields)
		if err != nil {
			return err
		}

		lineIDs := make([]int64, len(lines))
		for i, line := range lines {
			lineIDs[i] = line.id
			_, err := eav.Create(ctx, q, domain.EntityOrderItem, []eav.Field{
				{Name: "order_id", Value: eav.FormatInt(orderID)},
				{Name: "dish_id", Value: eav.FormatInt(line.dishID)},
				{Name: "quantity", Value: eav.FormatInt(line.quantity)},
				{Name: "price", Value: prices[i]},
			})
			if err != nil {
				return err
			}
		}
		if _, err := q.DeleteEntities(ctx, domain.EntityCartItem, lineIDs); err != nil {
			return err
		}

		receipt.OrderID = orderID
		receipt.Total = total
		receipt.Items = len(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordEntityCreated(domain.EntityOrder)
	metrics.RecordOrderRevenue(receipt.Total)
	publishEvent(ctx, s.publisher, s.logger, domain.Event{
		Type:      domain.EventOrderPlaced,
		OrderID:   receipt.OrderID,
		UserID:    in.UserID,
		Total:     receipt.Total,
		Timestamp: time.Now(),
	})
	return receipt, nil
}

// List returns every order without its lines.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	entities, err := s.store.ReadAllEntities(ctx, domain.EntityOrder)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(entities))
	for _, e := range entities {
		order, err := toOrder(e)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	ids, err := s.store.FindInstanceIDs(ctx, domain.EntityOrder, "user_id", eav.FormatInt(userID))
	if err != nil {
		return nil, err
	}
	entities, err := s.store.ReadEntities(ctx, domain.EntityOrder, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(entities))
	for _, e := range entities {
		order, err := toOrder(e)
		if err != nil {
			return nil, err
		}
		if order.Items, err = s.orderLines(ctx, e.ID); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *OrderService) QRCode(ctx context.Context, orderID int64) ([]byte, error) {
	if _, err := eav.MustRead(ctx, s.store, domain.EntityOrder, orderID); err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(orderID)
}

func (s *OrderService) orderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	ids, err := s.store.FindInstanceIDs(ctx, domain.EntityOrderItem, "order_id", eav.FormatInt(orderID))
	if err != nil {
		return nil, err
	}
	entities, err := s.store.ReadEntities(ctx, domain.EntityOrderItem, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.OrderLine, 0, len(entities))
	for _, e := range entities {
		dishID, err := e.Attrs.Int("dish_id")
		if err != nil {
			return nil, err
		}
		qty, err := e.Attrs.Int("quantity")
		if err != nil {
			return nil, err
		}
		price, err := e.Attrs.Float("price")
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.OrderLine{
			DishID:   dishID,
			Quantity: qty,
			Price:    price,
			Total:    price * float64(qty),
		})
	}
	return lines, nil
}

func toOrder(e eav.Entity) (domain.Order, error) {
	userID, err := e.Attrs.Int("user_id")
	if err != nil {
		return domain.Order{}, err
	}
	addressID, err := e.Attrs.Int("address_id")
	if err != nil {
		return domain.Order{}, err
	}
	total, err := e.Attrs.Float("total_price")
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		OrderID:    e.ID,
		UserID:     userID,
		AddressID:  addressID,
		Status:     e.Attrs.String("status"),
		TotalPrice: total,
		CreatedAt:  e.Attrs.String("created_at"),
	}, nil
}
