package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// Payment is captured when a patient's arrival is confirmed.
type Payment struct {
	Deposit decimal.Decimal `json:"deposit"`
	Balance decimal.Decimal `json:"balance"`
	Total   decimal.Decimal `json:"total"`
	Settled bool            `json:"settled"`
}

// Validate checks that amounts are non-negative and add up.
func (p Payment) Validate() error {
	if p.Deposit.IsNegative() || p.Balance.IsNegative() || p.Total.IsNegative() {
		return customError.NewValidationError("payment", "amounts must not be negative")
	}
	if !p.Deposit.Add(p.Balance).Equal(p.Total) {
		return customError.NewValidationError("payment",
			fmt.Sprintf("deposit %s plus balance %s must equal total %s", p.Deposit, p.Balance, p.Total))
	}
	if p.Settled && !p.Balance.IsZero() {
		return customError.NewValidationError("payment.settled", "a settled payment cannot carry a balance")
	}
	return nil
}

func (p Payment) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payment) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("cannot scan %T into Payment", src)
}
