package services

import (
	"context"
	"fmt"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"gorm.io/gorm"
)

var ErrInvalidTransition = apperrors.BadRequest("Invalid status transition")

type AppointmentInput struct {
	ProfessionalID  string    `json:"professionalId" binding:"required"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Notes           string    `json:"notes"`
}

type AppointmentService struct {
	db            *gorm.DB
	notifications *NotificationService
	now           func() time.Time
}

func NewAppointmentService(db *gorm.DB, notifications *NotificationService) *AppointmentService {
	return &AppointmentService{db: db, notifications: notifications, now: time.Now}
}

func (s *AppointmentService) Book(ctx context.Context, rc reqctx.Context, in AppointmentInput) (*models.Appointment, error) {
	if !rc.Is(models.RoleClient) {
		return nil, apperrors.Forbidden("Only clients can book appointments")
	}
	if !in.ScheduledAt.After(s.now()) {
		return nil, apperrors.BadRequest("scheduledAt must be in the future")
	}
	duration := in.DurationMinutes
	if duration == 0 {
		duration = 60
	}
	if duration < 15 || duration > 240 {
		return nil, apperrors.BadRequest("durationMinutes must be between 15 and 240")
	}

	var professional models.User
	if err := s.db.WithContext(ctx).Where("id = ?", in.ProfessionalID).First(&professional).Error; err != nil {
		return nil, apperrors.FromDB(err, "professional")
	}

	var kind models.AppointmentKind
	switch professional.Role {
	case models.RoleInstructor:
		kind = models.AppointmentSession
	case models.RoleDietician:
		kind = models.AppointmentConsultation
	default:
		return nil, apperrors.BadRequest("Appointments can only be booked with an instructor or a dietician")
	}

	a := models.Appointment{
		Kind:            kind,
		ClientID:        rc.UserID,
		ProfessionalID:  professional.ID,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          models.AppointmentPending,
		Notes:           in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, apperrors.FromDB(err, "appointment")
	}

	s.notifications.notify(ctx, professional.ID, models.NotificationTypeAppointment,
		"New booking request", fmt.Sprintf("A %s was requested for %s", kind, a.ScheduledAt.Format(time.RFC1123)))
	return &a, nil
}

func (s *AppointmentService) List(ctx context.Context, rc reqctx.Context, status string) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	q := s.db.WithContext(ctx).
		Where("client_id = ? OR professional_id = ?", rc.UserID, rc.UserID).
		Preload("Client").
		Preload("Professional").
		Order("scheduled_at asc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&appointments).Error; err != nil {
		return nil, apperrors.FromDB(err, "appointment")
	}
	return appointments, nil
}

// allowedTransition reports whether the caller's side may move an
// appointment from one status to another.
func allowedTransition(from, to models.AppointmentStatus, isProfessional bool) bool {
	if from.Terminal() || from == to {
		return false
	}
	switch to {
	case models.AppointmentCancelled:
		return true
	case models.AppointmentConfirmed:
		return isProfessional && from == models.AppointmentPending
	case models.AppointmentCompleted:
		return isProfessional && from == models.AppointmentConfirmed
	}
	return false
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, rc reqctx.Context, appointmentID string, to models.AppointmentStatus) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.db.WithContext(ctx).Where("id = ?", appointmentID).First(&a).Error; err != nil {
		return nil, apperrors.FromDB(err, "appointment")
	}

	var isProfessional bool
	var other string
	switch rc.UserID {
	case a.ProfessionalID:
		isProfessional, other = true, a.ClientID
	case a.ClientID:
		other = a.ProfessionalID
	default:
		return nil, apperrors.Forbidden("Not your appointment")
	}

	if !allowedTransition(a.Status, to, isProfessional) {
		return nil, ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).Model(&a).Update("status", to).Error; err != nil {
		return nil, apperrors.FromDB(err, "appointment")
	}
	a.Status = to

	s.notifications.notify(ctx, other, models.NotificationTypeAppointment,
		"Appointment updated", fmt.Sprintf("Your %s on %s is now %s", a.Kind, a.ScheduledAt.Format(time.RFC1123), to))
	return &a, nil
}
