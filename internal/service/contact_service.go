package service

import (
	"context"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"
)

type ContactService struct {
	store eav.Store
}

func NewContactService(store eav.Store) *ContactService {
	return &ContactService{store: store}
}

// Info merges every contact_info instance; later ids override earlier ones.
func (s *ContactService) Info(ctx context.Context) (map[string]string, error) {
	entities, err := s.store.ReadAllEntities(ctx, domain.EntityContactInfo)
	if err != nil {
		return nil, err
	}
	info := make(map[string]string)
	for _, e := range entities {
		for k, v := range e.Attrs {
			info[k] = v
		}
	}
	return info, nil
}

func (s *ContactService) SubmitMessage(ctx context.Context, in domain.ContactMessageInput) (int64, error) {
	if err := requireText("name", in.Name, "phone", in.Phone, "message", in.Message); err != nil {
		return 0, err
	}
	var id int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		var err error
		id, err = eav.Create(ctx, q, domain.EntitySupportMessage, []eav.Field{
			{Name: "name", Value: in.Name},
			{Name: "phone", Value: in.Phone},
			{Name: "message", Value: in.Message},
			{Name: "created_at", Value: eav.FormatTime(time.Now())},
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntitySupportMessage)
	return id, nil
}
