package models

// StoreSettings are the pricing inputs read from the singleton settings document.
type StoreSettings struct {
	FreeShippingThreshold int64   `json:"freeShippingThreshold"`
	ShippingCost          int64   `json:"shippingCost"`
	GSTRate               float64 `json:"gstRate"`
}

// StoreSettingsDocument mirrors the stored document, where any field may be absent.
type StoreSettingsDocument struct {
	ID                    string   `bson:"_id"`
	FreeShippingThreshold *int64   `bson:"freeShippingThreshold,omitempty"`
	ShippingCost          *int64   `bson:"shippingCost,omitempty"`
	GSTRate               *float64 `bson:"gstRate,omitempty"`
}

// Resolve fills every absent field from defaults.
func (d *StoreSettingsDocument) Resolve(defaults StoreSettings) StoreSettings {
	s := defaults
	if d == nil {
		return s
	}
	if d.FreeShippingThreshold != nil {
		s.FreeShippingThreshold = *d.FreeShippingThreshold
	}
	if d.ShippingCost != nil {
		s.ShippingCost = *d.ShippingCost
	}
	if d.GSTRate != nil {
		s.GSTRate = *d.GSTRate
	}
	return s
}
