package models

import "fmt"

// PaymentMode menentukan siapa melihat dan membayar item di shared cart.
type PaymentMode string

const (
	// PaymentModeUnset berarti sesi belum memilih mode; cart diperlakukan shared.
	PaymentModeUnset      PaymentMode = ""
	PaymentModeHost       PaymentMode = "host"
	PaymentModeIndividual PaymentMode = "individual"
	PaymentModeSplit      PaymentMode = "split"
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch PaymentMode(s) {
	case PaymentModeUnset, PaymentModeHost, PaymentModeIndividual, PaymentModeSplit:
		return PaymentMode(s), nil
	}
	return PaymentModeUnset, fmt.Errorf("invalid payment mode: %q", s)
}

// SharedCart melaporkan apakah semua peserta melihat seluruh cart meja.
// Hanya individual/split yang membatasi visibilitas ke item milik sendiri.
func (m PaymentMode) SharedCart() bool {
	return m != PaymentModeIndividual && m != PaymentModeSplit
}

// OwnItemsOnly melaporkan apakah checkout hanya mencakup item milik device pemanggil.
func (m PaymentMode) OwnItemsOnly() bool {
	return m == PaymentModeIndividual || m == PaymentModeSplit
}

func (m PaymentMode) String() string {
	if m == PaymentModeUnset {
		return "host" // default tampilan untuk sesi yang belum memilih
	}
	return string(m)
}
