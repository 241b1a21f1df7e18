package models

import "time"

// IsOffer reports whether the listing offers transport capacity.
func (m *MarketItem) IsOffer() bool {
	return m.VehicleType != ""
}

// IsRequest reports whether the listing asks for a vehicle.
func (m *MarketItem) IsRequest() bool {
	return m.RequiredVehicleType != ""
}

// Date returns the date a listing becomes actionable: the availability date
// for offers, otherwise the cargo ready date.
func (m *MarketItem) Date() *time.Time {
	if m.AvailableDate != nil {
		return m.AvailableDate
	}
	return m.ReadyDate
}

// Validate checks if the listing meets all validation requirements
func (m *MarketItem) Validate() error {
	return validate.Struct(m)
}
