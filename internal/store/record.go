package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/dmitrijs2005/guardian/internal/common"
)

// Record is anything persisted in a collection. The id is owned by the
// engine: Insert assigns it and reads overwrite whatever the body says.
type Record interface {
	GetID() int64
	SetID(id int64)
}

// Stamped records carry a creation time that Insert fills in when zero.
type Stamped interface {
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
}

// Validator is implemented by records that check their own invariants.
type Validator interface {
	Validate() error
}

// Row is a stored record before decoding.
type Row struct {
	ID        int64
	Body      json.RawMessage
	CreatedAt time.Time
}

// Decode unmarshals the row body into out and sets its id.
func (r Row) Decode(out Record) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode row %d: %w", r.ID, err)
	}
	out.SetID(r.ID)
	return nil
}

const timeLayout = time.RFC3339Nano

var timeType = reflect.TypeOf(time.Time{})

// normalizeTimes moves every exported time.Time reachable through struct
// fields and pointers to UTC, in place.
func normalizeTimes(v reflect.Value) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	if v.Type() == timeType {
		if v.CanSet() {
			v.Set(reflect.ValueOf(v.Interface().(time.Time).UTC()))
		}
		return
	}
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.CanSet() {
			normalizeTimes(f)
		}
	}
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// indexArg converts a lookup value into something comparable with what
// json_extract yields. isNull is true for nil and nil pointers.
func indexArg(v any) (arg any, isNull bool, err error) {
	if t, ok := v.(time.Time); ok {
		return formatTime(t), false, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, true, nil
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, true, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		// json_extract yields 1/0 for JSON booleans
		if rv.Bool() {
			return int64(1), false, nil
		}
		return int64(0), false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), false, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), false, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), false, nil
	case reflect.String:
		return rv.String(), false, nil
	case reflect.Struct:
		if t, ok := rv.Interface().(time.Time); ok {
			return formatTime(t), false, nil
		}
	}
	return nil, false, fmt.Errorf("index value of type %T: %w", v, common.ErrInvalidArgument)
}
