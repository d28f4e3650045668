package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMode(t *testing.T) {
	for _, valid := range []string{"", "host", "individual", "split"} {
		mode, err := ParsePaymentMode(valid)
		assert.NoError(t, err)
		assert.Equal(t, PaymentMode(valid), mode)
	}

	_, err := ParsePaymentMode("dutch")
	assert.Error(t, err)
}

func TestPaymentModeVisibility(t *testing.T) {
	assert.True(t, PaymentModeUnset.SharedCart())
	assert.True(t, PaymentModeHost.SharedCart())
	assert.False(t, PaymentModeIndividual.SharedCart())
	assert.False(t, PaymentModeSplit.SharedCart())

	assert.False(t, PaymentModeHost.OwnItemsOnly())
	assert.True(t, PaymentModeIndividual.OwnItemsOnly())
	assert.True(t, PaymentModeSplit.OwnItemsOnly())
}

func TestPaymentModeString(t *testing.T) {
	assert.Equal(t, "host", PaymentModeUnset.String())
	assert.Equal(t, "individual", PaymentModeIndividual.String())
}

func TestTableStatusFromOccupancy(t *testing.T) {
	table := Table{Capacity: 4}

	table.Occupied = 0
	table.UpdateStatusFromOccupancy()
	assert.Equal(t, TableStatusAvailable, table.Status)

	table.Occupied = 2
	table.UpdateStatusFromOccupancy()
	assert.Equal(t, TableStatusPartial, table.Status)

	table.Occupied = 4
	table.UpdateStatusFromOccupancy()
	assert.Equal(t, TableStatusFull, table.Status)
	assert.NotNil(t, table.StatusChangedAt)
}

func TestSessionHelpers(t *testing.T) {
	hostID := "device-host"
	session := TableSession{
		HostDeviceID: &hostID,
		Users: []SessionUser{
			{DeviceID: "device-host", Name: "Andi", Role: ParticipantRoleHost, Status: ParticipantStatusApproved},
			{DeviceID: "device-guest", Name: "Budi", Role: ParticipantRoleGuest, Status: ParticipantStatusPending},
		},
	}

	assert.True(t, session.IsHost("device-host"))
	assert.False(t, session.IsHost("device-guest"))
	assert.Equal(t, 1, session.FindUser("device-guest"))
	assert.Equal(t, -1, session.FindUser("device-unknown"))
	assert.Equal(t, "Budi", session.UserName("device-guest"))
	assert.Equal(t, "Guest", session.UserName("device-unknown"))
}
