package model

import (
	"database/sql/driver"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency — денежное значение numeric(10,2).
// Всегда квантуется до двух знаков после запятой; Valid=false соответствует NULL.
type Currency struct {
	decimal.NullDecimal
}

// MaxCurrency: верхняя граница (не включительно) для numeric(10,2).
var MaxCurrency = decimal.New(1, 8)

// только обычная запись: экспонента вида 1e8000000 раздувает RoundBank
var plainAmount = regexp.MustCompile(`^-?(\d{1,20}([.,]\d{0,20})?|[.,]\d{1,20})$`)

// NewCurrency округляет значение до копеек (банковское округление, как quantize).
func NewCurrency(d decimal.Decimal) Currency {
	return Currency{decimal.NullDecimal{Decimal: d.RoundBank(2), Valid: true}}
}

// ParseCurrency разбирает пользовательский ввод. Пустая или некорректная строка даёт NULL.
func ParseCurrency(s string) Currency {
	s = strings.TrimSpace(s)
	if !plainAmount.MatchString(s) {
		return Currency{}
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Currency{}
	}
	return NewCurrency(d)
}

// Scan читает значение из БД и квантует его.
func (c *Currency) Scan(value any) error {
	var nd decimal.NullDecimal
	if err := nd.Scan(value); err != nil {
		return err
	}
	if nd.Valid {
		nd.Decimal = nd.Decimal.RoundBank(2)
	}
	c.NullDecimal = nd
	return nil
}

// Value пишет значение в БД строкой с двумя знаками.
func (c Currency) Value() (driver.Value, error) {
	if !c.Valid {
		return nil, nil
	}
	return c.Decimal.StringFixed(2), nil
}

func (c Currency) String() string {
	if !c.Valid {
		return ""
	}
	return c.Decimal.StringFixed(2)
}

func (c Currency) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + c.Decimal.StringFixed(2) + `"`), nil
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	*c = ParseCurrency(strings.Trim(string(data), `"`))
	return nil
}
