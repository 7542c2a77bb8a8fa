// Package fuelcoupon issues numbered fuel vouchers for branch vehicles.
package fuelcoupon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FuelType string

const (
	FuelPetrol FuelType = "PETROL"
	FuelDiesel FuelType = "DIESEL"
)

func (f FuelType) Valid() bool {
	return f == FuelPetrol || f == FuelDiesel
}

type Coupon struct {
	ID            uuid.UUID
	Number        string
	BranchID      uuid.UUID
	BranchName    string
	VehicleNumber string
	DriverName    string
	FuelType      FuelType
	Litres        decimal.Decimal
	PricePerLitre decimal.Decimal
	Amount        decimal.Decimal
	IssueDate     time.Time
	IssuedBy      uuid.UUID
	CreatedAt     time.Time
}

// Cost is litres times price, rounded to the nearest kobo.
func Cost(litres, pricePerLitre decimal.Decimal) decimal.Decimal {
	return litres.Mul(pricePerLitre).Round(2)
}
