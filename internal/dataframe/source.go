package dataframe

import (
	"gxkit/internal/ltb"
)

// Source is the read side of an opened table resource.
// Field 0 is the record key field.
type Source interface {
	Fields() int
	FieldName(i int) string
	Keys() []string
	FindKey(key string) (int, error)
	Value(row, field int) string
}

// Opener opens a table by name. A non-empty key scopes the source to that
// record; a missing key must match ltb.ErrKeyNotFound.
type Opener interface {
	Open(table, key string) (Source, error)
}

// StoreOpener opens tables from an ltb.Store
type StoreOpener struct {
	Store *ltb.Store
}

// Open implements Opener
func (o StoreOpener) Open(table, key string) (Source, error) {
	t, err := o.Store.Open(table, key)
	if err != nil {
		return nil, err
	}
	return t, nil
}
