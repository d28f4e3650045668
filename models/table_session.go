package models

import "time"

const (
	SessionStatusActive      = "active"
	SessionStatusPaidLeaving = "paid_leaving"
	SessionStatusInactive    = "inactive"
	SessionStatusExpired     = "expired"
	SessionStatusTerminated  = "terminated"
)

// OccupyingSessionStatuses adalah status sesi yang masih menduduki meja.
// Invariant: maksimal satu sesi per meja dengan status di daftar ini.
var OccupyingSessionStatuses = []string{SessionStatusActive, SessionStatusPaidLeaving}

const (
	ParticipantRoleHost  = "host"
	ParticipantRoleGuest = "guest"

	ParticipantStatusPending  = "pending"
	ParticipantStatusApproved = "approved"
)

// SessionUser adalah satu device yang ikut dalam sesi meja.
type SessionUser struct {
	DeviceID string    `json:"device_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

type SessionMetadata struct {
	PaymentMode  PaymentMode `json:"payment_mode"`
	CustomerType string      `json:"customer_type,omitempty"`
}

// TableSession merepresentasikan satu kunjungan di satu meja, bisa lebih
// dari satu device. Daftar peserta dan metadata disimpan sebagai kolom JSON.
type TableSession struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	SessionID          string          `gorm:"type:varchar(20);index" json:"session_id"`
	TableID            uint            `gorm:"index;not null" json:"table_id"`
	Table              Table           `gorm:"foreignKey:TableID" json:"-"`
	HostDeviceID       *string         `gorm:"type:varchar(64)" json:"host_device_id,omitempty"`
	Users              []SessionUser   `gorm:"serializer:json" json:"users"`
	Metadata           SessionMetadata `gorm:"serializer:json" json:"metadata"`
	DeviceIP           string          `gorm:"type:varchar(45)" json:"device_ip,omitempty"`
	DeviceType         string          `gorm:"type:varchar(20)" json:"device_type,omitempty"`
	Browser            string          `gorm:"type:varchar(50)" json:"browser,omitempty"`
	UserAgent          string          `gorm:"type:varchar(512)" json:"user_agent,omitempty"`
	Status             string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CurrentActivity    string          `gorm:"type:varchar(100)" json:"current_activity,omitempty"`
	PaymentCompleted   bool            `gorm:"not null;default:false" json:"payment_completed"`
	PaymentCompletedAt *time.Time      `json:"payment_completed_at,omitempty"`
	LastActivityAt     time.Time       `gorm:"not null;index" json:"last_activity_at"`
	StartedAt          time.Time       `gorm:"not null" json:"started_at"`
	EndedAt            *time.Time      `json:"ended_at,omitempty"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`
}

func (s *TableSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsHost memeriksa apakah device adalah host sesi ini. host_device_id, sekali
// terisi, tidak pernah berubah.
func (s *TableSession) IsHost(deviceID string) bool {
	return s.HostDeviceID != nil && *s.HostDeviceID == deviceID
}

// FindUser mengembalikan index peserta untuk deviceID, atau -1.
func (s *TableSession) FindUser(deviceID string) int {
	for i := range s.Users {
		if s.Users[i].DeviceID == deviceID {
			return i
		}
	}
	return -1
}

// UserName mengembalikan nama peserta, default "Guest" bila tidak dikenal.
func (s *TableSession) UserName(deviceID string) string {
	if i := s.FindUser(deviceID); i >= 0 && s.Users[i].Name != "" {
		return s.Users[i].Name
	}
	return "Guest"
}
