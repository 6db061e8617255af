package services

import (
	"context"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"gorm.io/gorm"
)

var validSettingKeys = map[string]bool{
	models.SettingMaintenanceMode:  true,
	models.SettingRegistrationOpen: true,
	models.SettingChatEnabled:      true,
	models.SettingMatchingEnabled:  true,
}

type AdminService struct {
	db        *gorm.DB
	reminders *ReminderService
	now       func() time.Time
}

func NewAdminService(db *gorm.DB, reminders *ReminderService) *AdminService {
	return &AdminService{db: db, reminders: reminders, now: time.Now}
}

func logAdminAction(tx *gorm.DB, rc reqctx.Context, action models.ActionType, targetID, targetType, details, ip string) error {
	return tx.Create(&models.AdminAction{
		AdminID:    rc.UserID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Details:    details,
		IPAddress:  ip,
	}).Error
}

func (s *AdminService) Dashboard(ctx context.Context) (models.DashboardMetrics, error) {
	var m models.DashboardMetrics
	db := s.db.WithContext(ctx)
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&m.TotalUsers, db.Model(&models.User{})},
		{&m.Clients, db.Model(&models.User{}).Where("role = ?", models.RoleClient)},
		{&m.Instructors, db.Model(&models.User{}).Where("role = ?", models.RoleInstructor)},
		{&m.Dieticians, db.Model(&models.User{}).Where("role = ?", models.RoleDietician)},
		{&m.IncompleteProfiles, db.Model(&models.User{}).Where("role <> ? AND profile_completed = ?", models.RoleAdmin, false)},
		{&m.UpcomingAppointment, db.Model(&models.Appointment{}).Where("scheduled_at > ? AND status IN ?", now, []models.AppointmentStatus{models.AppointmentPending, models.AppointmentConfirmed})},
		{&m.Conversations, db.Model(&models.Conversation{})},
		{&m.MessagesToday, db.Model(&models.Message{}).Where("sent_at >= ?", startOfDay)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return m, apperrors.FromDB(err, "metrics")
		}
	}
	return m, nil
}

// DeleteUser soft deletes the account and records the audit entry in the
// same transaction.
func (s *AdminService) DeleteUser(ctx context.Context, rc reqctx.Context, userID, ip string) error {
	if userID == rc.UserID {
		return apperrors.BadRequest("You cannot delete your own account")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return logAdminAction(tx, rc, models.ActionDeleteUser, userID, "user", "Deleted "+user.Email, ip)
	})
	if err != nil {
		return apperrors.FromDB(err, "account")
	}
	return nil
}

// PromoteUser gives an account the admin role.
func (s *AdminService) PromoteUser(ctx context.Context, rc reqctx.Context, userID, ip string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if user.Role == models.RoleAdmin {
			return apperrors.BadRequest("User is already an admin")
		}
		previous := user.Role
		if err := tx.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return err
		}
		user.Role = models.RoleAdmin
		return logAdminAction(tx, rc, models.ActionPromoteUser, userID, "user", "Promoted from "+string(previous), ip)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	return &user, nil
}

func (s *AdminService) Settings(ctx context.Context) (map[string]string, error) {
	var settings []models.SystemSettings
	if err := s.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, apperrors.FromDB(err, "setting")
	}
	out := make(map[string]string, len(settings))
	for _, st := range settings {
		out[st.Key] = st.Value
	}
	return out, nil
}

func (s *AdminService) UpdateSetting(ctx context.Context, rc reqctx.Context, key, value, ip string) (*models.SystemSettings, error) {
	if !validSettingKeys[key] {
		return nil, apperrors.BadRequest("Invalid setting key")
	}
	if value != "true" && value != "false" {
		return nil, apperrors.BadRequest("Setting value must be true or false")
	}

	setting := models.SystemSettings{Key: key, Value: value, UpdatedBy: rc.UserID, UpdatedAt: s.now()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", key).Assign(setting).FirstOrCreate(&setting).Error; err != nil {
			return err
		}
		return logAdminAction(tx, rc, models.ActionUpdateSetting, key, "setting", "Changed to: "+value, ip)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "setting")
	}
	return &setting, nil
}

// TriggerReminder runs a fan-out immediately, outside the cron schedule.
func (s *AdminService) TriggerReminder(ctx context.Context, rc reqctx.Context, period models.Period, ip string) (int, error) {
	created, err := s.reminders.FanOut(ctx, period, s.now())
	if err != nil {
		return created, err
	}
	if err := logAdminAction(s.db.WithContext(ctx), rc, models.ActionTriggerReminder, string(period), "reminder", "Manual fan-out", ip); err != nil {
		return created, apperrors.FromDB(err, "audit entry")
	}
	return created, nil
}

func (s *AdminService) AuditLog(ctx context.Context, limit int) ([]models.AdminAction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	actions := []models.AdminAction{}
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&actions).Error; err != nil {
		return nil, apperrors.FromDB(err, "audit entry")
	}
	return actions, nil
}
