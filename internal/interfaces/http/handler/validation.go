package handler

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// Expose decimal fields to the numeric tags (gt, gte, ...) so price
	// bounds can live in binding tags like every other field rule.
	v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})
}

func decimalAsFloat(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
