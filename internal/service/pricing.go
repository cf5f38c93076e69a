package service

import (
	"github.com/calzado-next/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice 生效单价：促销价存在、为正且严格低于原价时取促销价，否则取原价
func EffectivePrice(product *models.Product) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	if hasEffectivePromo(product) {
		return product.PromoPrice.Decimal.Round(2)
	}
	return product.Price.Decimal.Round(2)
}

// DiscountPercent 折扣百分比，四舍六入五成双取整
func DiscountPercent(product *models.Product) int {
	if product == nil || !hasEffectivePromo(product) {
		return 0
	}
	base := product.Price.Decimal
	if !base.IsPositive() {
		return 0
	}
	pct := base.Sub(product.PromoPrice.Decimal).Mul(hundred).Div(base).RoundBank(0)
	return int(pct.IntPart())
}

// LineSubtotal 行小计 = 数量 × 单价
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func hasEffectivePromo(product *models.Product) bool {
	if product.PromoPrice == nil {
		return false
	}
	promo := product.PromoPrice.Decimal
	return promo.IsPositive() && promo.LessThan(product.Price.Decimal)
}
