package migrations

import (
	"gorm.io/gorm"
)

// Migration003AddHotPathIndexes covers the inbox queries:
// unread counts per conversation and the appointment agenda.
func Migration003AddHotPathIndexes() Migration {
	return Migration{
		ID:        "003_add_hot_path_indexes",
		Name:      "Add indexes for inbox and agenda queries",
		DependsOn: []string{"001_conversation_pair_uniqueness"},
		Up: func(db *gorm.DB) error {
			// Optimizes: WHERE conversation_id = ? AND sender_id <> ? AND is_read = false
			unread := `
				CREATE INDEX IF NOT EXISTS idx_messages_unread
				ON messages (conversation_id, is_read, sender_id)
			`
			if err := db.Exec(unread).Error; err != nil {
				return err
			}

			// Optimizes: WHERE professional_id = ? AND status = ? ORDER BY scheduled_at
			agenda := `
				CREATE INDEX IF NOT EXISTS idx_appointments_professional_agenda
				ON appointments (professional_id, status, scheduled_at)
			`
			return db.Exec(agenda).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_messages_unread`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_appointments_professional_agenda`).Error
		},
	}
}
