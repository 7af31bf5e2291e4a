package service

import (
	"context"
	"strings"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"
)

const loyaltyAccruedAttr = "loyalty_accrued"

type UserService struct {
	store eav.Store
}

func NewUserService(store eav.Store) *UserService {
	return &UserService{store: store}
}

// Register creates a user with a unique phone and the starting loyalty level.
func (s *UserService) Register(ctx context.Context, in domain.RegisterInput) (int64, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	if err := requireText(
		"name", in.Name,
		"phone", in.Phone,
		"city", in.City,
		"street", in.Street,
		"house", in.House,
	); err != nil {
		return 0, err
	}

	var id int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		if err := q.Lock(ctx, "user:phone:"+in.Phone); err != nil {
			return err
		}
		_, taken, err := eav.FindOne(ctx, q, domain.EntityUser, "phone", in.Phone)
		if err != nil {
			return err
		}
		if taken {
			return validationf("phone %s is already registered", in.Phone)
		}
		id, err = eav.Create(ctx, q, domain.EntityUser, []eav.Field{
			{Name: "name", Value: in.Name},
			{Name: "phone", Value: in.Phone},
			{Name: "city", Value: in.City},
			{Name: "street", Value: in.Street},
			{Name: "house", Value: in.House},
			{Name: "building", Value: in.Building},
			{Name: "floor", Value: in.Floor},
			{Name: "flat", Value: in.Flat},
			{Name: "loyalty_discount", Value: domain.InitialLoyaltyLevel},
			{Name: "loyalty_total", Value: "0"},
			{Name: "created_at", Value: eav.FormatTime(time.Now())},
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntityUser)
	return id, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	rec, err := eav.MustRead(ctx, s.store, domain.EntityUser, id)
	if err != nil {
		return nil, err
	}
	u, err := toUser(id, rec)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	entities, err := s.store.ReadAllEntities(ctx, domain.EntityUser)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(entities))
	for _, e := range entities {
		u, err := toUser(e.ID, e.Attrs)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Login looks the user up by phone. There is no credential check.
func (s *UserService) Login(ctx context.Context, phone string) (*domain.LoginResult, error) {
	phone = strings.TrimSpace(phone)
	if err := requireText("phone", phone); err != nil {
		return nil, err
	}
	id, ok, err := eav.FindOne(ctx, s.store, domain.EntityUser, "phone", phone)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFoundf("user with phone %s", phone)
	}
	rec, err := s.store.ReadEntity(ctx, domain.EntityUser, id)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{UserID: id, Name: rec.String("name")}, nil
}

// AccrueLoyalty adds an order total to the user's loyalty_total once per order.
// The order is marked with loyalty_accrued so a redelivered event is a no-op.
func (s *UserService) AccrueLoyalty(ctx context.Context, userID, orderID int64, amount float64) error {
	return s.store.InTx(ctx, func(q eav.Querier) error {
		if err := q.Lock(ctx, "user:id:"+eav.FormatInt(userID)); err != nil {
			return err
		}
		order, err := eav.MustRead(ctx, q, domain.EntityOrder, orderID)
		if err != nil {
			return err
		}
		if done, _ := order.Bool(loyaltyAccruedAttr); done {
			return nil
		}
		if _, err := eav.MustRead(ctx, q, domain.EntityUser, userID); err != nil {
			return err
		}

		rows, err := q.ReadRows(ctx, domain.EntityUser, userID)
		if err != nil {
			return err
		}
		if row, ok := eav.Resolve(rows, "loyalty_total"); ok {
			current, err := eav.Record{"loyalty_total": row.Value}.Float("loyalty_total")
			if err != nil {
				return err
			}
			if err := q.UpdateRowValue(ctx, row.ID, eav.FormatFloat(current+amount)); err != nil {
				return err
			}
		} else {
			err := q.InsertAttributes(ctx, eav.ToRows(domain.EntityUser, userID, []eav.Field{
				{Name: "loyalty_total", Value: eav.FormatFloat(amount)},
			}))
			if err != nil {
				return err
			}
		}

		return q.InsertAttributes(ctx, eav.ToRows(domain.EntityOrder, orderID, []eav.Field{
			{Name: loyaltyAccruedAttr, Value: eav.FormatBool(true)},
		}))
	})
}

func toUser(id int64, rec eav.Record) (domain.User, error) {
	discount, err := rec.Float("loyalty_discount")
	if err != nil {
		return domain.User{}, err
	}
	total, err := rec.Float("loyalty_total")
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		UserID:          id,
		Name:            rec.String("name"),
		Phone:           rec.String("phone"),
		City:            rec.String("city"),
		Street:          rec.String("street"),
		House:           rec.String("house"),
		Building:        rec.String("building"),
		Floor:           rec.String("floor"),
		Flat:            rec.String("flat"),
		LoyaltyDiscount: discount,
		LoyaltyTotal:    total,
		CreatedAt:       rec.String("created_at"),
	}, nil
}
