package service

import "github.com/shopspring/decimal"

func requireMoney(fe *fieldErrors, field string, v *decimal.Decimal) {
	if v == nil {
		fe.add(field, "is required")
		return
	}
	checkMoney(fe, field, v)
}

func checkMoney(fe *fieldErrors, field string, v *decimal.Decimal) {
	if v != nil && v.IsNegative() {
		fe.add(field, "must not be negative")
	}
}
