package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

type AttrKind int

const (
	KindText AttrKind = iota
	KindInt
	KindFloat
	KindBool
	KindDatetime
)

func (k AttrKind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindDatetime:
		return "datetime"
	default:
		return "text"
	}
}

// EntitySchema coerces admin-supplied fields for one entity type.
// An open schema accepts any attribute as text.
type EntitySchema struct {
	Name  string
	Attrs map[string]AttrKind
	Open  bool
}

var stampAttrs = map[string]AttrKind{
	"created_at": KindDatetime,
	"updated_at": KindDatetime,
}

var builtinSchemas = []EntitySchema{
	{Name: domain.EntityDish, Attrs: map[string]AttrKind{
		"name": KindText, "price": KindFloat, "description": KindText, "category": KindText,
		"image_url": KindText, "is_active": KindBool,
	}},
	{Name: domain.EntityCategory, Attrs: map[string]AttrKind{"name": KindText}},
	{Name: domain.EntityUser, Attrs: map[string]AttrKind{
		"name": KindText, "phone": KindText, "city": KindText, "street": KindText, "house": KindText,
		"building": KindText, "floor": KindText, "flat": KindText,
		"loyalty_discount": KindFloat, "loyalty_total": KindFloat,
	}},
	{Name: domain.EntityCart, Attrs: map[string]AttrKind{"user_id": KindInt}},
	{Name: domain.EntityCartItem, Attrs: map[string]AttrKind{
		"cart_id": KindInt, "dish_id": KindInt, "quantity": KindInt,
	}},
	{Name: domain.EntityOrder, Attrs: map[string]AttrKind{
		"user_id": KindInt, "address_id": KindInt, "status": KindText, "total_price": KindFloat,
		"waiter_id": KindInt, "loyalty_accrued": KindBool,
	}},
	{Name: domain.EntityOrderItem, Attrs: map[string]AttrKind{
		"order_id": KindInt, "dish_id": KindInt, "quantity": KindInt, "price": KindFloat,
	}},
	{Name: domain.EntityBooking, Attrs: map[string]AttrKind{
		"user_id": KindInt, "datetime": KindDatetime, "table_id": KindInt, "guests": KindInt, "comment": KindText,
	}},
	{Name: domain.EntityTable, Attrs: map[string]AttrKind{
		"number": KindInt, "seats": KindInt, "location": KindText,
	}},
	{Name: domain.EntityReview, Attrs: map[string]AttrKind{
		"user_id": KindInt, "rating": KindInt, "comment": KindText, "dish_id": KindInt, "restaurant": KindBool,
	}},
	{Name: domain.EntityNews, Attrs: map[string]AttrKind{
		"title": KindText, "body": KindText, "type": KindText, "image_url": KindText, "tags": KindText,
	}},
	{Name: domain.EntitySupportMessage, Attrs: map[string]AttrKind{
		"name": KindText, "phone": KindText, "message": KindText,
	}},
	{Name: domain.EntityStaffShift, Attrs: map[string]AttrKind{
		"user_id": KindInt, "start_time": KindDatetime, "end_time": KindDatetime,
	}},
	{Name: domain.EntityContactInfo, Open: true},
}

type Registry struct {
	builtins map[string]EntitySchema
}

func NewRegistry() *Registry {
	r := &Registry{builtins: make(map[string]EntitySchema, len(builtinSchemas))}
	for _, s := range builtinSchemas {
		r.builtins[s.Name] = s
	}
	return r
}

func (r *Registry) IsBuiltin(name string) bool {
	_, ok := r.builtins[name]
	return ok
}

// Lookup resolves a built-in schema or a type registered in the catalog.
func (r *Registry) Lookup(ctx context.Context, q eav.Querier, name string) (EntitySchema, error) {
	if s, ok := r.builtins[name]; ok {
		return s, nil
	}
	exists, err := q.EntityTypeExists(ctx, name)
	if err != nil {
		return EntitySchema{}, err
	}
	if !exists {
		return EntitySchema{}, fmt.Errorf("%w: unknown entity type %q", domain.ErrNotFound, name)
	}
	return EntitySchema{Name: name, Open: true}, nil
}

// Coerce renders fields as stored text, sorted by name.
func (s EntitySchema) Coerce(fields map[string]interface{}) ([]eav.Field, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]eav.Field, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty attribute name", domain.ErrValidation)
		}
		text, err := eav.FormatValue(fields[name])
		if err != nil {
			return nil, fmt.Errorf("%w (attribute %q)", err, name)
		}
		kind, known := s.kind(name)
		if !known {
			return nil, fmt.Errorf("%w: %s has no attribute %q", domain.ErrValidation, s.Name, name)
		}
		text, err = checkKind(name, text, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, eav.Field{Name: name, Value: text})
	}
	return out, nil
}

func (s EntitySchema) kind(attr string) (AttrKind, bool) {
	if k, ok := stampAttrs[attr]; ok {
		return k, true
	}
	if s.Open {
		return KindText, true
	}
	k, ok := s.Attrs[attr]
	return k, ok
}

// checkKind validates text against kind and returns its stored form. Integral
// floats such as 2.0 or 1e2 are accepted for int attributes and stored as
// plain integers.
func checkKind(attr, text string, kind AttrKind) (string, error) {
	if text == "" {
		return text, nil
	}
	var err error
	switch kind {
	case KindInt:
		text, err = canonicalInt(text)
	case KindFloat:
		_, err = strconv.ParseFloat(text, 64)
	case KindBool:
		_, err = strconv.ParseBool(text)
	case KindDatetime:
		_, err = eav.ParseTime(text)
	}
	if err != nil {
		return "", fmt.Errorf("%w: attribute %q must be %s, got %q", domain.ErrValidation, attr, kind, text)
	}
	return text, nil
}

func canonicalInt(text string) (string, error) {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return text, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return text, strconv.ErrRange
	}
	return eav.FormatInt(int64(f)), nil
}
