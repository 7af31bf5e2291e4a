package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
	"restoflow/internal/metrics"
)

type NewsService struct {
	store eav.Store
}

func NewNewsService(store eav.Store) *NewsService {
	return &NewsService{store: store}
}

func (s *NewsService) Create(ctx context.Context, in domain.NewsInput) (int64, error) {
	if err := requireText("title", in.Title, "body", in.Body); err != nil {
		return 0, err
	}
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "" {
		kind = domain.DefaultNewsType
	}
	if !domain.NewsTypes[kind] {
		return 0, validationf("unknown news type %q", in.Type)
	}

	var id int64
	err := s.store.InTx(ctx, func(q eav.Querier) error {
		var err error
		id, err = eav.Create(ctx, q, domain.EntityNews, []eav.Field{
			{Name: "title", Value: in.Title},
			{Name: "body", Value: in.Body},
			{Name: "type", Value: kind},
			{Name: "image_url", Value: in.ImageURL},
			{Name: "tags", Value: in.Tags},
			{Name: "created_at", Value: eav.FormatTime(time.Now())},
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RecordEntityCreated(domain.EntityNews)
	return id, nil
}

// List returns news newest first.
func (s *NewsService) List(ctx context.Context) ([]domain.News, error) {
	entities, err := s.store.ReadAllEntities(ctx, domain.EntityNews)
	if err != nil {
		return nil, err
	}
	news := make([]domain.News, 0, len(entities))
	for _, e := range entities {
		news = append(news, toNews(e.ID, e.Attrs))
	}
	sort.SliceStable(news, func(i, j int) bool {
		if news[i].CreatedAt != news[j].CreatedAt {
			return news[i].CreatedAt > news[j].CreatedAt
		}
		return news[i].NewsID > news[j].NewsID
	})
	return news, nil
}

func (s *NewsService) Get(ctx context.Context, id int64) (*domain.News, error) {
	rec, err := eav.MustRead(ctx, s.store, domain.EntityNews, id)
	if err != nil {
		return nil, err
	}
	n := toNews(id, rec)
	return &n, nil
}

func toNews(id int64, rec eav.Record) domain.News {
	return domain.News{
		NewsID:    id,
		Title:     rec.String("title"),
		Body:      rec.String("body"),
		Type:      rec.String("type"),
		ImageURL:  rec.String("image_url"),
		Tags:      rec.String("tags"),
		CreatedAt: rec.String("created_at"),
	}
}
