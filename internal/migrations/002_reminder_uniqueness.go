package migrations

import (
	"gorm.io/gorm"
)

// Migration002ReminderUniqueness backs the reminder existence check with a
// constraint, so two overlapping fan-out runs cannot both insert.
func Migration002ReminderUniqueness() Migration {
	return Migration{
		ID:   "002_reminder_uniqueness",
		Name: "Unique reminder per user, period and day",
		Up: func(db *gorm.DB) error {
			// Drop duplicates left by runs before the constraint existed
			cleanup := `
				DELETE FROM notifications
				WHERE period IS NOT NULL
				AND id NOT IN (
					SELECT MIN(id) FROM notifications
					WHERE period IS NOT NULL
					GROUP BY user_id, period, reminder_date
				)
			`
			if err := db.Exec(cleanup).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_reminder_day
				ON notifications (user_id, period, reminder_date)
				WHERE period IS NOT NULL
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_notifications_reminder_day`).Error
		},
	}
}
