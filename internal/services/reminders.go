package services

import (
	"context"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"gorm.io/gorm"
)

type reminderTemplate struct {
	title   string
	message string
}

var reminderTemplates = map[models.Period]reminderTemplate{
	models.PeriodMorning: {
		title:   "Good morning!",
		message: "Start your day with a glass of water and check today's workout plan.",
	},
	models.PeriodAfternoon: {
		title:   "Afternoon check-in",
		message: "Have you logged your lunch? Take a short walk to stay on track.",
	},
	models.PeriodNight: {
		title:   "Evening wind-down",
		message: "Log today's meals and workouts, then get a good night's sleep.",
	},
}

// ReminderService creates the daily reminder notifications for clients.
type ReminderService struct {
	db       *gorm.DB
	notifier Notifier
	loc      *time.Location
}

func NewReminderService(db *gorm.DB, notifier Notifier, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{db: db, notifier: notifierOrNop(notifier), loc: loc}
}

// FanOut creates one reminder for every client that does not yet have one
// for period on now's date. Running it again for the same day creates
// nothing.
func (s *ReminderService) FanOut(ctx context.Context, period models.Period, now time.Time) (int, error) {
	tmpl, ok := reminderTemplates[period]
	if !ok {
		return 0, apperrors.BadRequest("Unknown reminder period")
	}
	date := now.In(s.loc).Format("2006-01-02")

	var clientIDs []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleClient).
		Order("created_at asc").
		Pluck("id", &clientIDs).Error; err != nil {
		return 0, apperrors.FromDB(err, "account")
	}

	created := 0
	for _, userID := range clientIDs {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		var existing int64
		if err := s.db.WithContext(ctx).Model(&models.Notification{}).
			Where("user_id = ? AND period = ? AND reminder_date = ?", userID, period, date).
			Count(&existing).Error; err != nil {
			return created, apperrors.FromDB(err, "notification")
		}
		if existing > 0 {
			continue
		}

		p, d := period, date
		n := models.Notification{
			UserID:       userID,
			Type:         models.NotificationTypeReminder,
			Title:        tmpl.title,
			Message:      tmpl.message,
			Period:       &p,
			ReminderDate: &d,
		}
		if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
			if apperrors.IsDuplicateKey(err) {
				// A concurrent run inserted it first
				continue
			}
			return created, apperrors.FromDB(err, "notification")
		}
		created++
		s.notifier.NotifyUser(userID, EventNotification, n)
	}

	logger.Info().
		Str("period", string(period)).
		Str("date", date).
		Int("clients", len(clientIDs)).
		Int("created", created).
		Msg("Reminder fan-out finished")
	return created, nil
}
