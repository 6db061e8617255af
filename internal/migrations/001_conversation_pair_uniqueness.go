package migrations

import (
	"gorm.io/gorm"
)

// Migration001ConversationPairUniqueness enforces one conversation per
// (client, instructor) and per (client, dietician). Partial indexes so rows
// with an empty slot do not collide; the syntax works on PostgreSQL and SQLite.
func Migration001ConversationPairUniqueness() Migration {
	return Migration{
		ID:   "001_conversation_pair_uniqueness",
		Name: "Unique conversation per client/professional pair",
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_client_instructor
					ON conversations (client_id, instructor_id)
					WHERE instructor_id IS NOT NULL`,
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_client_dietician
					ON conversations (client_id, dietician_id)
					WHERE dietician_id IS NOT NULL`,
			}
			for _, stmt := range stmts {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_conversations_client_instructor`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_conversations_client_dietician`).Error
		},
	}
}
