// Package eav holds the attribute-row model shared by every entity type:
// the physical row, the pivoted record, and the store contract.
package eav

// Row is one physical attribute value.
type Row struct {
	ID         int64  `db:"val_id"`
	EntityType string `db:"ent_name"`
	Attribute  string `db:"attr_name"`
	InstanceID int64  `db:"ent_instance_id"`
	Value      string `db:"value"`
}

// Field is a named attribute value waiting to be written.
type Field struct {
	Name  string
	Value string
}

// Entity is a pivoted instance of one entity type.
type Entity struct {
	Type  string
	ID    int64
	Attrs Record
}
