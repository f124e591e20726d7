// Package storeservice prices the services a store sells (installation,
// repairs, rentals ...) with optional promotions, scheduled price changes and
// extra charges.
package storeservice

import (
	"time"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/catalog"
)

const Kind = "store_service"

type StoreService struct {
	ID               *uuid.UUID         `json:"id,omitempty"`
	Store            *catalog.Store     `json:"store"`
	Service          *catalog.Reference `json:"service"`
	Price            *float64           `json:"price"`
	LaborAmount      *float64           `json:"laborAmount"`
	Active           *bool              `json:"active"`
	PriceOverridable *bool              `json:"priceOverridable"`
	MinimumPrice     *float64           `json:"minimumPrice"`
	MaximumPrice     *float64           `json:"maximumPrice"`

	PromotionPrice       *float64   `json:"promotionPrice"`
	PromotionLaborAmount *float64   `json:"promotionLaborAmount"`
	PromotionStartDate   *time.Time `json:"promotionStartDate"`
	PromotionEndDate     *time.Time `json:"promotionEndDate"`

	ScheduledChangeDate        *time.Time `json:"scheduledChangeDate"`
	ScheduledChangePrice       *float64   `json:"scheduledChangePrice"`
	ScheduledChangeLaborAmount *float64   `json:"scheduledChangeLaborAmount"`

	ServiceExtraCharges []*ServiceExtraCharge `json:"serviceExtraCharges"`
}

type ServiceExtraCharge struct {
	Charge  *catalog.Reference `json:"charge"`
	Amount  *float64           `json:"amount"`
	Taxable *bool              `json:"taxable"`
}

// Services offered for pricing.
var Services = []catalog.Reference{
	{Code: "INSTALL", Description: "Installation"},
	{Code: "REPAIR", Description: "Repair"},
	{Code: "RENTAL", Description: "Equipment Rental"},
	{Code: "DELIVERY", Description: "Delivery"},
}
