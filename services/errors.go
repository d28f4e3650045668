// Package services berisi logika bisnis sesi meja, shared cart, dan checkout.
// Sentinel error di bawah dipetakan controller ke kode HTTP: context/authz ke
// 403, not-found ke 404, conflict ke 409, cart kosong ke 400.
package services

import "errors"

var (
	// ErrTableContextRequired: request tanpa konteks meja; client harus scan ulang QR.
	ErrTableContextRequired = errors.New("table context required, please scan the QR code")

	// ErrTableNotFound: token QR tidak dikenal atau meja nonaktif.
	ErrTableNotFound = errors.New("invalid or inactive table")

	// ErrSessionNotFound: tidak ada sesi aktif di meja ini.
	ErrSessionNotFound = errors.New("no active session found at this table")

	// ErrSessionConflict: sudah ada sesi aktif dengan host lain; silakan join.
	ErrSessionConflict = errors.New("a session is already active, please join instead")

	// ErrNotHost: aksi khusus host dipanggil device lain.
	ErrNotHost = errors.New("only the host can perform this action")

	// ErrGuestNotFound: target approve/reject tidak ada di daftar peserta.
	ErrGuestNotFound = errors.New("guest request not found")

	// ErrNotParticipant: device di luar daftar peserta memakai ID sesi orang lain.
	ErrNotParticipant = errors.New("device is not a participant of this session")

	// ErrCartItemNotFound: item tidak ada di cart meja ini.
	ErrCartItemNotFound = errors.New("item not found in table cart")

	// ErrNotYourItem: device mencoba menghapus item milik device lain.
	ErrNotYourItem = errors.New("you can only remove your own items")

	// ErrCartEmpty: checkout tanpa item dalam scope pemanggil.
	ErrCartEmpty = errors.New("no items to checkout for this device")

	// ErrMenuItemNotFound: produk tidak dikenal atau tidak tersedia.
	ErrMenuItemNotFound = errors.New("menu item not found or unavailable")

	// ErrOrderNotFound untuk lookup/cancel order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotCancellable: order sudah dikonfirmasi dapur.
	ErrOrderNotCancellable = errors.New("order cannot be cancelled, it has already been confirmed")

	// ErrNotYourOrder: cancel order milik device lain.
	ErrNotYourOrder = errors.New("unauthorized to cancel this order")
)

// RequestInfo membawa identitas device dan fingerprint request, dirakit
// sekali per request oleh middleware dan dioper eksplisit ke service.
type RequestInfo struct {
	DeviceID  string
	IP        string
	UserAgent string
}
