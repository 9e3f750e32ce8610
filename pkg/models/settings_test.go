package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSettingsDocumentResolve(t *testing.T) {
	defaults := StoreSettings{FreeShippingThreshold: 25000, ShippingCost: 500, GSTRate: 5}
	threshold := int64(999)
	zero := 0.0

	tests := []struct {
		name string
		doc  *StoreSettingsDocument
		want StoreSettings
	}{
		{"missing document", nil, defaults},
		{"empty document", &StoreSettingsDocument{ID: "store"}, defaults},
		{
			"partial document",
			&StoreSettingsDocument{ID: "store", FreeShippingThreshold: &threshold},
			StoreSettings{FreeShippingThreshold: 999, ShippingCost: 500, GSTRate: 5},
		},
		{
			"explicit zero rate",
			&StoreSettingsDocument{ID: "store", GSTRate: &zero},
			StoreSettings{FreeShippingThreshold: 25000, ShippingCost: 500, GSTRate: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.Resolve(defaults))
		})
	}
}
