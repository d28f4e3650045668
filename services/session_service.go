package services

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/utils"
)

// SessionService adalah state machine sesi meja: create-or-join, klaim host,
// approval guest, pergantian payment mode, heartbeat, dan expire sweep.
type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// lockForUpdate menambahkan SELECT ... FOR UPDATE di MySQL. SQLite (dipakai
// tests) tidak mengenal row lock dan memang single-writer.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// displaySessionID menghasilkan ID tampilan ala "#1251" (basis 1247 + max id).
func displaySessionID(tx *gorm.DB) string {
	var maxID int64
	tx.Model(&models.TableSession{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID)
	return "#" + strconv.FormatInt(1247+maxID, 10)
}

// occupyingSession mengambil sesi yang sedang menduduki meja (active/paid_leaving).
func occupyingSession(tx *gorm.DB, tableID uint) (*models.TableSession, error) {
	var session models.TableSession
	err := tx.Where("table_id = ? AND status IN ?", tableID, models.OccupyingSessionStatuses).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// activeSession seperti occupyingSession tapi hanya status active: sesi
// paid_leaving tidak boleh menerima mutasi cart/join lagi.
func activeSession(tx *gorm.DB, tableID uint) (*models.TableSession, error) {
	var session models.TableSession
	err := tx.Where("table_id = ? AND status = ?", tableID, models.SessionStatusActive).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// activeSessionForUpdate seperti activeSession dengan SELECT ... FOR UPDATE.
// Wajib dipakai transaksi yang read-modify-write kolom JSON users/metadata
// supaya dua request konkuren tidak saling menimpa.
func activeSessionForUpdate(tx *gorm.DB, tableID uint) (*models.TableSession, error) {
	return activeSession(lockForUpdate(tx), tableID)
}

// touchActivity me-reset last_activity_at; setiap mutasi sesi/cart dihitung
// sebagai heartbeat untuk deteksi staleness.
func touchActivity(tx *gorm.DB, sessionRowID uint) error {
	return tx.Model(&models.TableSession{}).Where("id = ?", sessionRowID).
		UpdateColumn("last_activity_at", time.Now()).Error
}

// ScanTable: device membuka URL QR meja. Meja single-session: bila sudah ada
// sesi yang menduduki, device menempel ke sesi itu; bila belum, sesi baru
// dibuat. Create-vs-attach diputuskan di dalam transaksi yang mengunci baris
// meja supaya dua device yang balapan scan terserialisasi.
func (s *SessionService) ScanTable(token string, info RequestInfo) (*models.Table, *models.TableSession, bool, error) {
	var table models.Table
	if err := s.DB.Where("qr_token = ? AND is_active = ?", token, true).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, ErrTableNotFound
		}
		return nil, nil, false, err
	}

	var session models.TableSession
	created := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var locked models.Table
		if err := lockForUpdate(tx).First(&locked, table.ID).Error; err != nil {
			return err
		}

		existing, err := occupyingSession(tx, table.ID)
		if err == nil {
			session = *existing
			return touchActivity(tx, session.ID)
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}

		now := time.Now()
		session = models.TableSession{
			SessionID: displaySessionID(tx),
			TableID:   table.ID,
			Users:     []models.SessionUser{},
			// Payment mode belum dipilih; device pertama yang memilih
			// customer type yang menentukan (dan bisa jadi host).
			Metadata:        models.SessionMetadata{PaymentMode: models.PaymentModeUnset},
			DeviceIP:        info.IP,
			DeviceType:      utils.DetectDeviceType(info.UserAgent),
			Browser:         utils.DetectBrowser(info.UserAgent),
			UserAgent:       info.UserAgent,
			Status:          models.SessionStatusActive,
			CurrentActivity: "Browsing menu",
			StartedAt:       now,
			LastActivityAt:  now,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		created = true
		return s.recalcOccupancy(tx, table.ID)
	})
	if err != nil {
		return nil, nil, false, err
	}

	s.recordDeviceSession(table.ID, info)

	// Occupancy bisa berubah di transaksi, muat ulang meja
	if err := s.DB.First(&table, table.ID).Error; err != nil {
		return nil, nil, false, err
	}

	return &table, &session, created, nil
}

// ScanByAccessCode adalah fallback input manual untuk device yang tidak bisa
// memindai QR; perilakunya sama dengan ScanTable.
func (s *SessionService) ScanByAccessCode(code string, info RequestInfo) (*models.Table, *models.TableSession, bool, error) {
	var table models.Table
	if err := s.DB.Where("access_code = ? AND is_active = ?", code, true).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, ErrTableNotFound
		}
		return nil, nil, false, err
	}
	return s.ScanTable(table.QRToken, info)
}

// recordDeviceSession meng-upsert fingerprint device per meja.
func (s *SessionService) recordDeviceSession(tableID uint, info RequestInfo) {
	ua := info.UserAgent
	if len(ua) > 512 {
		ua = ua[:512]
	}
	ds := models.DeviceSession{
		DeviceID:   info.DeviceID,
		TableID:    tableID,
		DeviceIP:   info.IP,
		DeviceType: utils.DetectDeviceType(info.UserAgent),
		Browser:    utils.DetectBrowser(info.UserAgent),
		UserAgent:  ua,
		LastSeenAt: time.Now(),
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "table_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_ip", "device_type", "browser", "user_agent", "last_seen_at", "updated_at"}),
	}).Create(&ds).Error
	if err != nil {
		utils.ErrorLogger.Printf("failed to record device session (table=%d device=%s): %v", tableID, info.DeviceID, err)
	}
}

// InitHost membuat sesi group baru dengan pemanggil sebagai host. Bila sudah
// ada sesi: host yang sama boleh resume, device lain ditolak (harus join).
func (s *SessionService) InitHost(tableID uint, customerName string, info RequestInfo) (*models.TableSession, error) {
	var session *models.TableSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var locked models.Table
		if err := lockForUpdate(tx).First(&locked, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		existing, err := occupyingSession(tx, tableID)
		if err == nil {
			if existing.IsHost(info.DeviceID) {
				session = existing
				return touchActivity(tx, existing.ID)
			}
			return ErrSessionConflict
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}

		if customerName == "" {
			customerName = "Host"
		}
		now := time.Now()
		hostID := info.DeviceID
		created := models.TableSession{
			SessionID:    displaySessionID(tx),
			TableID:      tableID,
			HostDeviceID: &hostID,
			Users: []models.SessionUser{{
				DeviceID: info.DeviceID,
				Name:     customerName,
				Role:     models.ParticipantRoleHost,
				Status:   models.ParticipantStatusApproved,
				JoinedAt: now,
			}},
			Metadata: models.SessionMetadata{
				PaymentMode:  models.PaymentModeHost,
				CustomerType: "group",
			},
			DeviceIP:       info.IP,
			DeviceType:     utils.DetectDeviceType(info.UserAgent),
			Browser:        utils.DetectBrowser(info.UserAgent),
			UserAgent:      info.UserAgent,
			Status:         models.SessionStatusActive,
			StartedAt:      now,
			LastActivityAt: now,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		session = &created
		return s.recalcOccupancy(tx, tableID)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SetCustomerType memproses pilihan awal device: individual, atau group
// sebagai host (klaim host). Klaim host hanya sah bila host belum ada atau
// pemanggil memang host (recovery). Payment mode sesi hanya diubah oleh host
// atau, bila host belum ada, oleh device pertama yang memilih.
func (s *SessionService) SetCustomerType(tableID uint, customerType string, mode models.PaymentMode, customerName string, info RequestInfo) (*models.TableSession, error) {
	var session *models.TableSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		found, err := activeSessionForUpdate(tx, tableID)
		if err != nil {
			return err
		}
		session = found
		now := time.Now()

		if customerType == "individual" {
			mode = models.PaymentModeIndividual
		}

		claimsHost := customerType == "group" &&
			(mode == models.PaymentModeHost || mode == models.PaymentModeSplit)

		if claimsHost {
			switch {
			case session.HostDeviceID == nil:
				hostID := info.DeviceID
				session.HostDeviceID = &hostID
			case !session.IsHost(info.DeviceID):
				return ErrSessionConflict
			}
		}

		// Pastikan pemanggil tercatat sebagai peserta
		if idx := session.FindUser(info.DeviceID); idx < 0 {
			role := models.ParticipantRoleGuest
			if claimsHost {
				role = models.ParticipantRoleHost
			}
			name := customerName
			if name == "" {
				if claimsHost {
					name = "Host"
				} else {
					name = "Guest"
				}
			}
			session.Users = append(session.Users, models.SessionUser{
				DeviceID: info.DeviceID,
				Name:     name,
				Role:     role,
				Status:   models.ParticipantStatusApproved,
				JoinedAt: now,
			})
		} else if customerName != "" {
			session.Users[idx].Name = customerName
		}

		if session.HostDeviceID == nil || session.IsHost(info.DeviceID) {
			session.Metadata.PaymentMode = mode
		}
		session.Metadata.CustomerType = customerType
		session.LastActivityAt = now

		return tx.Save(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// JoinRequest menambahkan device sebagai guest berstatus pending. Guest yang
// sudah approved langsung dapat jawaban approved (idempotent untuk polling).
func (s *SessionService) JoinRequest(tableID uint, customerName string, info RequestInfo) (string, *models.TableSession, error) {
	var status string
	var session *models.TableSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		found, err := activeSessionForUpdate(tx, tableID)
		if err != nil {
			return err
		}
		session = found

		if idx := session.FindUser(info.DeviceID); idx >= 0 {
			status = session.Users[idx].Status
			return nil
		}

		session.Users = append(session.Users, models.SessionUser{
			DeviceID: info.DeviceID,
			Name:     customerName,
			Role:     models.ParticipantRoleGuest,
			Status:   models.ParticipantStatusPending,
			JoinedAt: time.Now(),
		})
		session.LastActivityAt = time.Now()
		status = models.ParticipantStatusPending
		return tx.Save(session).Error
	})
	if err != nil {
		return "", nil, err
	}
	return status, session, nil
}

// HandleGuestAction: host approve/reject guest pending. Reject menghapus
// entri dari daftar peserta.
func (s *SessionService) HandleGuestAction(tableID uint, targetDeviceID, action string, info RequestInfo) ([]models.SessionUser, error) {
	var users []models.SessionUser

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := activeSessionForUpdate(tx, tableID)
		if err != nil {
			return err
		}
		if !session.IsHost(info.DeviceID) {
			return ErrNotHost
		}

		idx := session.FindUser(targetDeviceID)
		if idx < 0 {
			return ErrGuestNotFound
		}

		if action == "approve" {
			session.Users[idx].Status = models.ParticipantStatusApproved
		} else {
			session.Users = append(session.Users[:idx], session.Users[idx+1:]...)
		}
		session.LastActivityAt = time.Now()

		if err := tx.Save(session).Error; err != nil {
			return err
		}
		users = session.Users
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateSettings: host mengganti payment mode; berlaku seketika untuk
// visibilitas cart semua peserta.
func (s *SessionService) UpdateSettings(tableID uint, mode models.PaymentMode, info RequestInfo) (*models.TableSession, error) {
	var session *models.TableSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		found, err := activeSessionForUpdate(tx, tableID)
		if err != nil {
			return err
		}
		if !found.IsHost(info.DeviceID) {
			return ErrNotHost
		}

		found.Metadata.PaymentMode = mode
		found.LastActivityAt = time.Now()
		session = found
		return tx.Save(found).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SessionStatus adalah payload polling client (beberapa detik sekali).
type SessionStatus struct {
	Ended       bool                 `json:"-"`
	IsHost      bool                 `json:"is_host"`
	MyStatus    string               `json:"my_status"`
	Users       []models.SessionUser `json:"users"`
	PaymentMode string               `json:"payment_mode"`
	CartCount   int64                `json:"cart_count"`
}

// Status mengembalikan keadaan sesi dari sudut pandang device pemanggil.
func (s *SessionService) Status(tableID uint, info RequestInfo) (*SessionStatus, error) {
	session, err := activeSession(s.DB, tableID)
	if errors.Is(err, ErrSessionNotFound) {
		return &SessionStatus{Ended: true}, nil
	}
	if err != nil {
		return nil, err
	}

	myStatus := "unknown"
	if idx := session.FindUser(info.DeviceID); idx >= 0 {
		myStatus = session.Users[idx].Status
	}

	var cartCount int64
	if err := s.DB.Model(&models.CartItem{}).Where("table_id = ?", tableID).Count(&cartCount).Error; err != nil {
		return nil, err
	}

	return &SessionStatus{
		IsHost:      session.IsHost(info.DeviceID),
		MyStatus:    myStatus,
		Users:       session.Users,
		PaymentMode: session.Metadata.PaymentMode.String(),
		CartCount:   cartCount,
	}, nil
}

// requireParticipant menolak device di luar daftar peserta. Sesi yang belum
// punya peserta (baru scan, belum pilih customer type) masih bebas diakses.
func requireParticipant(session *models.TableSession, deviceID string) error {
	if len(session.Users) > 0 && session.FindUser(deviceID) < 0 {
		return ErrNotParticipant
	}
	return nil
}

// UpdateActivity mencatat aktivitas terakhir device (heartbeat eksplisit).
func (s *SessionService) UpdateActivity(sessionID, activity string, info RequestInfo) (*models.TableSession, error) {
	session, err := s.findByDisplayID(sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(session, info.DeviceID); err != nil {
		return nil, err
	}

	session.CurrentActivity = activity
	session.LastActivityAt = time.Now()
	if err := s.DB.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CompletePayment menandai pembayaran sesi selesai; meja secara logis selesai
// tapi mungkin masih diduduki (paid_leaving). Hanya peserta sesi yang boleh,
// ID sesi display gampang ditebak.
func (s *SessionService) CompletePayment(sessionID string, info RequestInfo) (*models.TableSession, error) {
	session, err := s.findByDisplayID(sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(session, info.DeviceID); err != nil {
		return nil, err
	}

	now := time.Now()
	session.PaymentCompleted = true
	session.PaymentCompletedAt = &now
	session.Status = models.SessionStatusPaidLeaving
	session.LastActivityAt = now
	if err := s.DB.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// End mengakhiri sesi secara eksplisit dan menghitung ulang occupancy meja.
func (s *SessionService) End(sessionID string) (*models.TableSession, error) {
	session, err := s.findByDisplayID(sessionID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		session.Status = models.SessionStatusTerminated
		session.EndedAt = &now
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		return s.recalcOccupancy(tx, session.TableID)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Disconnect: host keluar berarti sesi berakhir; guest keluar hanya
// menghapus dirinya dari daftar peserta, sesi jalan terus.
func (s *SessionService) Disconnect(tableID uint, info RequestInfo) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := occupyingSession(lockForUpdate(tx), tableID)
		if err != nil {
			return err
		}

		if session.IsHost(info.DeviceID) {
			now := time.Now()
			session.Status = models.SessionStatusTerminated
			session.EndedAt = &now
			if err := tx.Save(session).Error; err != nil {
				return err
			}
			return s.recalcOccupancy(tx, tableID)
		}

		if idx := session.FindUser(info.DeviceID); idx >= 0 {
			session.Users = append(session.Users[:idx], session.Users[idx+1:]...)
			return tx.Save(session).Error
		}
		return nil
	})
}

// ExpireStale mengalihkan sesi yang idle melewati threshold ke status expired
// dan menghitung ulang occupancy meja yang terdampak. Dipanggil sweeper
// periodik dan endpoint admin.
func (s *SessionService) ExpireStale(threshold time.Duration) (int, error) {
	expired := 0

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var stale []models.TableSession
		cutoff := time.Now().Add(-threshold)
		if err := tx.Where("status IN ? AND last_activity_at < ?", models.OccupyingSessionStatuses, cutoff).
			Find(&stale).Error; err != nil {
			return err
		}

		affected := map[uint]bool{}
		now := time.Now()
		for i := range stale {
			stale[i].Status = models.SessionStatusExpired
			stale[i].EndedAt = &now
			if err := tx.Save(&stale[i]).Error; err != nil {
				return err
			}
			affected[stale[i].TableID] = true
			expired++
		}

		for tableID := range affected {
			if err := s.recalcOccupancy(tx, tableID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

// ClearTable menutup semua sesi yang menduduki satu meja (aksi staff).
func (s *SessionService) ClearTable(tableID uint) (int64, error) {
	var cleared int64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TableSession{}).
			Where("table_id = ? AND status IN ?", tableID, models.OccupyingSessionStatuses).
			Updates(map[string]interface{}{
				"status":   models.SessionStatusTerminated,
				"ended_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		cleared = res.RowsAffected
		return s.recalcOccupancy(tx, tableID)
	})
	if err != nil {
		return 0, err
	}
	return cleared, nil
}

// recalcOccupancy: occupancy = jumlah sesi yang menduduki; status meja
// diturunkan dari occupancy. Dipanggil setiap create/end/expire/clear.
func (s *SessionService) recalcOccupancy(tx *gorm.DB, tableID uint) error {
	var count int64
	if err := tx.Model(&models.TableSession{}).
		Where("table_id = ? AND status IN ?", tableID, models.OccupyingSessionStatuses).
		Count(&count).Error; err != nil {
		return err
	}

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	table.Occupied = int(count)
	table.UpdateStatusFromOccupancy()
	return tx.Save(&table).Error
}

func (s *SessionService) findByDisplayID(sessionID string) (*models.TableSession, error) {
	var session models.TableSession
	err := s.DB.Where("session_id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}
