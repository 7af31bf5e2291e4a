package service

import (
	"context"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

type CartService struct {
	store eav.Store
}

func NewCartService(store eav.Store) *CartService {
	return &CartService{store: store}
}

func cartLockKey(userID int64) string {
	return "cart:user:" + eav.FormatInt(userID)
}

// AddItem finds or creates the user's cart and accumulates quantity on an
// existing line for the dish instead of adding a second one.
func (s *CartService) AddItem(ctx context.Context, in domain.CartItemInput) (int64, error) {
	if err := requirePositive("user_id", in.UserID); err != nil {
		return 0, err
	}
	if err := requirePositive("dish_id", in.DishID); err != nil {
		return 0, err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return 0, err
	}

	var cartID int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		if err := q.Lock(ctx, cartLockKey(in.UserID)); err != nil {
			return err
		}
		if _, err := eav.MustRead(ctx, q, domain.EntityDish, in.DishID); err != nil {
			return err
		}

		var err error
		cartID, err = findOrCreateCart(ctx, q, in.UserID)
		if err != nil {
			return err
		}

		lines, err := eav.FindJoined(ctx, q, domain.EntityCartItem,
			eav.Field{Name: "cart_id", Value: eav.FormatInt(cartID)},
			eav.Field{Name: "dish_id", Value: eav.FormatInt(in.DishID)},
		)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			_, err = eav.Create(ctx, q, domain.EntityCartItem, []eav.Field{
				{Name: "cart_id", Value: eav.FormatInt(cartID)},
				{Name: "dish_id", Value: eav.FormatInt(in.DishID)},
				{Name: "quantity", Value: eav.FormatInt(in.Quantity)},
			})
			return err
		}
		return addQuantity(ctx, q, lines[0], in.Quantity)
	})
	if err != nil {
		return 0, err
	}
	return cartID, nil
}

func (s *CartService) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart := &domain.Cart{Items: []domain.CartLine{}}

	cartID, ok, err := eav.FindOne(ctx, s.store, domain.EntityCart, "user_id", eav.FormatInt(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return cart, nil
	}
	cart.CartID = cartID

	lines, err := readCartLines(ctx, s.store, cartID)
	if err != nil {
		return nil, err
	}
	dishes, err := readDishes(ctx, s.store, lines)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		dish, ok := dishes[line.dishID]
		if !ok {
			continue
		}
		price, err := dish.Float("price")
		if err != nil {
			return nil, err
		}
		total := price * float64(line.quantity)
		cart.Items = append(cart.Items, domain.CartLine{
			DishID:   line.dishID,
			Name:     dish.String("name"),
			Price:    price,
			Quantity: line.quantity,
			Total:    total,
		})
		cart.Total += total
	}
	return cart, nil
}

// RemoveItem drops the cart line for dishID and returns its id.
func (s *CartService) RemoveItem(ctx context.Context, userID, dishID int64) (int64, error) {
	var lineID int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		if err := q.Lock(ctx, cartLockKey(userID)); err != nil {
			return err
		}
		cartID, ok, err := eav.FindOne(ctx, q, domain.EntityCart, "user_id", eav.FormatInt(userID))
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("cart for user %d", userID)
		}

		lines, err := eav.FindJoined(ctx, q, domain.EntityCartItem,
			eav.Field{Name: "cart_id", Value: eav.FormatInt(cartID)},
			eav.Field{Name: "dish_id", Value: eav.FormatInt(dishID)},
		)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return notFoundf("dish %d is not in the cart", dishID)
		}
		lineID = lines[0]
		_, err = q.DeleteEntities(ctx, domain.EntityCartItem, lines)
		return err
	})
	if err != nil {
		return 0, err
	}
	return lineID, nil
}

func findOrCreateCart(ctx context.Context, q eav.Querier, userID int64) (int64, error) {
	id, ok, err := eav.FindOne(ctx, q, domain.EntityCart, "user_id", eav.FormatInt(userID))
	if err != nil || ok {
		return id, err
	}
	return eav.Create(ctx, q, domain.EntityCart, []eav.Field{{Name: "user_id", Value: eav.FormatInt(userID)}})
}

// addQuantity point-updates the quantity row the pivot currently reads.
func addQuantity(ctx context.Context, q eav.Querier, lineID, delta int64) error {
	rows, err := q.ReadRows(ctx, domain.EntityCartItem, lineID)
	if err != nil {
		return err
	}
	row, ok := eav.Resolve(rows, "quantity")
	if !ok {
		return q.InsertAttributes(ctx, eav.ToRows(domain.EntityCartItem, lineID, []eav.Field{
			{Name: "quantity", Value: eav.FormatInt(delta)},
		}))
	}
	current, err := eav.Record{"quantity": row.Value}.Int("quantity")
	if err != nil {
		return err
	}
	return q.UpdateRowValue(ctx, row.ID, eav.FormatInt(current+delta))
}

type cartLine struct {
	id       int64
	dishID   int64
	quantity int64
}

func readCartLines(ctx context.Context, q eav.Querier, cartID int64) ([]cartLine, error) {
	ids, err := q.FindInstanceIDs(ctx, domain.EntityCartItem, "cart_id", eav.FormatInt(cartID))
	if err != nil {
		return nil, err
	}
	entities, err := q.ReadEntities(ctx, domain.EntityCartItem, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]cartLine, 0, len(entities))
	for _, e := range entities {
		dishID, err := e.Attrs.Int("dish_id")
		if err != nil {
			return nil, err
		}
		qty, err := e.Attrs.Int("quantity")
		if err != nil {
			return nil, err
		}
		lines = append(lines, cartLine{id: e.ID, dishID: dishID, quantity: qty})
	}
	return lines, nil
}

func readDishes(ctx context.Context, q eav.Querier, lines []cartLine) (map[int64]eav.Record, error) {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.dishID)
	}
	dishes, err := q.ReadEntities(ctx, domain.EntityDish, ids)
	if err != nil {
		return nil, err
	}
	return eav.Index(dishes), nil
}
