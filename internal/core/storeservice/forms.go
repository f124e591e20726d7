package storeservice

import (
	"context"

	"github.com/baseplate/storeops/internal/core/form"
)

const (
	FormStoreService = "StoreService"
	FormExtraCharge  = "ServiceExtraCharge"
)

func RegisterForms(f *form.Factory) {
	form.Register(f, FormStoreService, newStoreServiceForm)
	form.Register(f, FormExtraCharge, newExtraChargeForm)
}

var (
	promotionFields       = []string{"promotionPrice", "promotionLaborAmount", "promotionStartDate", "promotionEndDate"}
	scheduledChangeFields = []string{"scheduledChangeDate", "scheduledChangePrice", "scheduledChangeLaborAmount"}
)

func money() []form.Validator { return []form.Validator{form.Decimal(2), form.Min(0)} }

func newStoreServiceForm(ctx context.Context, f *form.Factory, m *StoreService, opts form.Options) (*form.Group, error) {
	charges, err := form.ArrayOf(ctx, f, FormExtraCharge, m.ServiceExtraCharges, opts)
	if err != nil {
		return nil, err
	}

	var active any = m.Active
	if m.Active == nil && opts.Defaults() {
		active = true
	}
	massUpdate := opts.Scope == form.ScopeMassUpdate

	g := form.NewGroup().
		Add("id", form.NewField(m.ID)).
		Add("store", form.NewField(m.Store)).
		Add("service", form.NewField(m.Service)).
		Add("price", form.NewField(m.Price, append([]form.Validator{form.Required}, money()...)...)).
		Add("laborAmount", form.NewField(m.LaborAmount, money()...)).
		Add("active", form.NewField(active)).
		Add("priceOverridable", form.NewField(m.PriceOverridable)).
		Add("minimumPrice", form.NewField(m.MinimumPrice, money()...)).
		Add("maximumPrice", form.NewField(m.MaximumPrice, money()...)).
		Add("promotionPrice", form.NewField(m.PromotionPrice, money()...)).
		Add("promotionLaborAmount", form.NewField(m.PromotionLaborAmount, money()...)).
		Add("promotionStartDate", form.NewField(m.PromotionStartDate)).
		Add("promotionEndDate", form.NewField(m.PromotionEndDate)).
		Add("scheduledChangeDate", form.NewField(m.ScheduledChangeDate)).
		Add("scheduledChangePrice", form.NewField(m.ScheduledChangePrice, money()...)).
		Add("scheduledChangeLaborAmount", form.NewField(m.ScheduledChangeLaborAmount, money()...)).
		Add("serviceExtraCharges", charges)

	g.Field("id").Disable()
	if massUpdate {
		g.Field("store").Disable()
		g.Field("service").Disable()
	} else {
		form.ImmutableAfterCreate(g, opts.Mode, "store", "service")
	}

	form.EnableWhen(ctx, g, "priceOverridable", "minimumPrice", "maximumPrice")
	form.ValidateGreaterThan(ctx, g, "minimumPrice", "maximumPrice")
	form.RequireTogether(ctx, g, promotionFields...)
	form.ValidateDateAfter(ctx, g, "promotionStartDate", "promotionEndDate")
	form.RequireTogether(ctx, g, scheduledChangeFields...)

	form.ApplyAccessMode(g, opts.Mode)
	return g, nil
}

func newExtraChargeForm(ctx context.Context, _ *form.Factory, m *ServiceExtraCharge, opts form.Options) (*form.Group, error) {
	g := form.NewGroup().
		Add("charge", form.NewField(m.Charge, form.Required)).
		Add("amount", form.NewField(m.Amount, money()...)).
		Add("taxable", form.NewField(m.Taxable))

	// Registration order matters: clearing runs before defaulting.
	form.ClearOnCleared(ctx, g, "charge", "amount", "taxable")
	form.DefaultWhenSet(ctx, g, "charge", "taxable", true)

	form.ApplyAccessMode(g, opts.Mode)
	return g, nil
}
