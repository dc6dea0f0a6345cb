package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FirstName: "Jane",
		LastName:  "Bloom",
		Email:     "jane@orchid.store",
		Phone:     "(555) 010-2233",
		Address:   "12 Greenhouse Lane",
		City:      "Portland",
		State:     "OR",
		ZipCode:   "97201",
		Country:   "US",
	}
}

func TestValidShippingPasses(t *testing.T) {
	assert.Empty(t, ValidateShipping(validShipping()))
}

func TestShortZipFailsOnZipFieldOnly(t *testing.T) {
	info := validShipping()
	info.ZipCode = "1234"

	errs := ValidateShipping(info)

	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "ZipCode")
}

func TestZipPlusFourAccepted(t *testing.T) {
	info := validShipping()
	info.ZipCode = "97201-1234"

	assert.Empty(t, ValidateShipping(info))
}

func TestPhoneCharset(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+1 (555) 010-2233", true},
		{"5550102233", true},
		{"555 010 2233", true},
		{"call me", false},
		{"555-010-2233 ext 4", false},
	}

	for _, tt := range tests {
		info := validShipping()
		info.Phone = tt.phone
		errs := ValidateShipping(info)
		if tt.valid {
			assert.Empty(t, errs, "phone %q should be accepted", tt.phone)
		} else {
			assert.Contains(t, errs, "Phone", "phone %q should be rejected", tt.phone)
		}
	}
}

func TestEmailShape(t *testing.T) {
	info := validShipping()
	info.Email = "not-an-email"

	errs := ValidateShipping(info)
	assert.Contains(t, errs, "Email")
}

func TestAllRequiredFieldsReported(t *testing.T) {
	errs := ValidateShipping(ShippingInfo{})

	for _, field := range []string{"FirstName", "LastName", "Email", "Phone", "Address", "City", "State", "ZipCode"} {
		assert.Contains(t, errs, field)
	}
	// Apartment and Country are optional
	assert.NotContains(t, errs, "Apartment")
	assert.NotContains(t, errs, "Country")
}
