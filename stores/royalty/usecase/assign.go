package usecase

import (
	"reflect"

	"github.com/x-xyz/marketledger/domain"
)

// assign copies *val into container, both must point to the same type
func assign(container, val interface{}) error {
	dst := reflect.ValueOf(container)
	src := reflect.ValueOf(val)
	if dst.Kind() != reflect.Ptr || src.Kind() != reflect.Ptr || dst.Type() != src.Type() {
		return domain.ErrInternalServerError
	}
	dst.Elem().Set(src.Elem())
	return nil
}
