package domain

import "time"

// Product описывает товар каталога с текущей ценой и остатком на складе.
type Product struct {
	ID string
	// Name — уникальное имя товара в каталоге.
	Name string
	// PriceMinor — текущая цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// Quantity — доступный остаток на складе, не бывает отрицательным
	// в рамках одного запроса (см. проверку в use case создания заказа).
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrProductQuantityInvalid)
	}

	return errs
}

// QuantityChange описывает запрошенное списание остатка по одному товару.
type QuantityChange struct {
	ProductID string
	Qty       int32
}
