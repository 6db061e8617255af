package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/reqctx"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"gorm.io/gorm"
)

const MaxMessageLength = 4000

var (
	ErrMissingProfessional = apperrors.BadRequest("A conversation needs an instructor or a dietician")
	ErrMissingClient       = apperrors.BadRequest("A conversation needs a client")
	ErrSelfConversation    = apperrors.BadRequest("Cannot start a conversation with yourself")
	ErrNotParticipant      = apperrors.Forbidden("You are not a participant in this conversation")
	ErrEmptyMessage        = apperrors.BadRequest("Message content is required")
	ErrMessageTooLong      = apperrors.BadRequest("Message is too long")
	ErrConversationMissing = apperrors.NotFound("Conversation not found")
	ErrAccountMissing      = apperrors.NotFound("Account not found")
)

// ConversationService owns conversations and their message log.
type ConversationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db, now: time.Now}
}

// slots holds the identifiers a conversation row stores for its parties.
type slots struct {
	clientID     string
	instructorID *string
	dieticianID  *string
}

// Resolve returns the conversation between the requester and target,
// creating it on first contact. created is false when it already existed.
//
// targetID may be an account id or a client/instructor/dietician profile id.
func (s *ConversationService) Resolve(ctx context.Context, rc reqctx.Context, targetID string) (*models.Conversation, bool, error) {
	if targetID == "" {
		return nil, false, apperrors.BadRequest("targetId is required")
	}

	requester, err := s.resolveAccount(ctx, rc.UserID)
	if err != nil {
		return nil, false, err
	}
	target, err := s.resolveAccount(ctx, targetID)
	if err != nil {
		return nil, false, err
	}
	if requester.ID == target.ID {
		return nil, false, ErrSelfConversation
	}

	sl, err := s.assignSlots(ctx, requester, target)
	if err != nil {
		return nil, false, err
	}

	if conv, err := s.findBySlots(ctx, sl); err == nil {
		return conv, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.FromDB(err, "conversation")
	}

	conv := models.Conversation{
		ClientID:     sl.clientID,
		InstructorID: sl.instructorID,
		DieticianID:  sl.dieticianID,
		CreatedAt:    s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			// Lost a race with a concurrent first contact
			existing, findErr := s.findBySlots(ctx, sl)
			if findErr != nil {
				return nil, false, apperrors.FromDB(findErr, "conversation")
			}
			return existing, false, nil
		}
		return nil, false, apperrors.FromDB(err, "conversation")
	}
	return &conv, true, nil
}

// resolveAccount accepts an account id or any role profile id.
func (s *ConversationService) resolveAccount(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&user).Error
	if err != nil {
		return user, apperrors.FromDB(err, "account")
	}
	if user.ID != "" {
		return user, nil
	}

	for _, table := range []string{"clients", "instructors", "dieticians"} {
		var userID string
		if err := s.db.WithContext(ctx).Table(table).Select("user_id").Where("id = ?", id).Limit(1).Scan(&userID).Error; err != nil {
			return user, apperrors.FromDB(err, "account")
		}
		if userID == "" {
			continue
		}
		if err := s.db.WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&user).Error; err != nil {
			return user, apperrors.FromDB(err, "account")
		}
		if user.ID != "" {
			return user, nil
		}
	}
	return user, ErrAccountMissing
}

// assignSlots classifies the two parties. Professionals take their role's
// slot, everyone else the client slot; the requester is placed in the client
// slot unless it is the professional.
func (s *ConversationService) assignSlots(ctx context.Context, requester, target models.User) (slots, error) {
	var client, professional models.User
	switch {
	case !requester.Role.IsProfessional() && !target.Role.IsProfessional():
		return slots{}, ErrMissingProfessional
	case requester.Role.IsProfessional() && target.Role.IsProfessional():
		return slots{}, ErrMissingClient
	case requester.Role.IsProfessional():
		client, professional = target, requester
	default:
		client, professional = requester, target
	}

	sl := slots{clientID: client.ID}
	switch professional.Role {
	case models.RoleInstructor:
		id := professional.ID
		sl.instructorID = &id
	case models.RoleDietician:
		profileID, err := s.dieticianProfileID(ctx, professional.ID)
		if err != nil {
			return slots{}, err
		}
		sl.dieticianID = &profileID
	}
	return sl, nil
}

func (s *ConversationService) dieticianProfileID(ctx context.Context, userID string) (string, error) {
	var profile models.Dietician
	if err := s.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).Limit(1).Find(&profile).Error; err != nil {
		return "", apperrors.FromDB(err, "dietician profile")
	}
	if profile.ID == "" {
		return "", apperrors.NotFound("Dietician has not completed their profile")
	}
	return profile.ID, nil
}

func (s *ConversationService) findBySlots(ctx context.Context, sl slots) (*models.Conversation, error) {
	q := s.db.WithContext(ctx).Where("client_id = ?", sl.clientID)
	if sl.instructorID != nil {
		q = q.Where("instructor_id = ?", *sl.instructorID)
	} else {
		q = q.Where("dietician_id = ?", *sl.dieticianID)
	}

	var conv models.Conversation
	if err := q.First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// Participant loads the conversation and checks userID belongs to it.
func (s *ConversationService) Participant(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.WithContext(ctx).Where("id = ?", conversationID).Limit(1).Find(&conv).Error; err != nil {
		return nil, apperrors.FromDB(err, "conversation")
	}
	if conv.ID == "" {
		return nil, ErrConversationMissing
	}

	ok, err := s.isParticipant(ctx, &conv, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	return &conv, nil
}

func (s *ConversationService) isParticipant(ctx context.Context, conv *models.Conversation, userID string) (bool, error) {
	if conv.ClientID == userID || (conv.InstructorID != nil && *conv.InstructorID == userID) {
		return true, nil
	}
	if conv.DieticianID == nil {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Dietician{}).
		Where("id = ? AND user_id = ?", *conv.DieticianID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.FromDB(err, "dietician profile")
	}
	return count > 0, nil
}

// Send appends a message to the conversation as unread.
func (s *ConversationService) Send(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	content = utils.CleanMessage(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len([]rune(content)) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	var sender models.User
	if err := s.db.WithContext(ctx).Select("id").Where("id = ?", senderID).Limit(1).Find(&sender).Error; err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	if sender.ID == "" {
		return nil, ErrAccountMissing
	}

	if _, err := s.Participant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		SentAt:         s.now(),
		IsRead:         false,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, apperrors.FromDB(err, "message")
	}
	return &msg, nil
}

// ListHistory returns every message of the conversation, oldest first.
func (s *ConversationService) ListHistory(ctx context.Context, conversationID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at asc").
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "message")
	}
	return messages, nil
}

// MarkRead flips every unread message not sent by readerID. Returns the
// number of messages changed; a second call changes nothing.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	now := s.now()
	result := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	if result.Error != nil {
		return 0, apperrors.FromDB(result.Error, "message")
	}
	return result.RowsAffected, nil
}

// ListConversationsFor builds the inbox of accountID, most recent activity
// first. Conversations without messages sort last.
func (s *ConversationService) ListConversationsFor(ctx context.Context, accountID string) ([]models.ConversationSummary, error) {
	db := s.db.WithContext(ctx)

	var ownProfiles []string
	if err := db.Model(&models.Dietician{}).Where("user_id = ?", accountID).Pluck("id", &ownProfiles).Error; err != nil {
		return nil, apperrors.FromDB(err, "dietician profile")
	}

	q := db.Where("client_id = ? OR instructor_id = ?", accountID, accountID)
	if len(ownProfiles) > 0 {
		q = db.Where("client_id = ? OR instructor_id = ? OR dietician_id IN ?", accountID, accountID, ownProfiles)
	}
	var convs []models.Conversation
	if err := q.Find(&convs).Error; err != nil {
		return nil, apperrors.FromDB(err, "conversation")
	}

	counterparts, err := s.counterparts(ctx, accountID, convs)
	if err != nil {
		return nil, err
	}

	convIDs := make([]string, 0, len(convs))
	for _, conv := range convs {
		convIDs = append(convIDs, conv.ID)
	}
	latest, err := s.latestMessages(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.unreadCounts(ctx, convIDs, accountID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := models.ConversationSummary{
			ConversationID:   conv.ID,
			ConversationDate: conv.CreatedAt,
		}
		if cp, ok := counterparts[conv.ID]; ok {
			summary.CounterpartID = cp.ID
			summary.CounterpartName = cp.Name
			summary.CounterpartRole = cp.Role
		}

		if last, ok := latest[conv.ID]; ok {
			sentAt := last.SentAt
			summary.LastMessage = last.Content
			summary.LastMessageAt = &sentAt
			summary.LastMessageBy = last.SenderID
		}
		summary.UnreadCount = unread[conv.ID]

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		switch {
		case a == nil && b == nil:
			return summaries[i].ConversationDate.After(summaries[j].ConversationDate)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return summaries, nil
}

// latestMessages returns the newest message of each conversation in one
// query. Rows sharing the newest sent_at are settled by the highest id.
func (s *ConversationService) latestMessages(ctx context.Context, convIDs []string) (map[string]models.Message, error) {
	out := make(map[string]models.Message, len(convIDs))
	if len(convIDs) == 0 {
		return out, nil
	}

	newest := s.db.Model(&models.Message{}).
		Select("conversation_id, MAX(sent_at) AS max_sent").
		Where("conversation_id IN ?", convIDs).
		Group("conversation_id")

	var rows []models.Message
	err := s.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.*").
		Joins("JOIN (?) AS newest ON newest.conversation_id = m.conversation_id AND newest.max_sent = m.sent_at", newest).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "message")
	}
	for _, m := range rows {
		if cur, ok := out[m.ConversationID]; !ok || m.ID > cur.ID {
			out[m.ConversationID] = m
		}
	}
	return out, nil
}

type unreadRow struct {
	ConversationID string
	Unread         int64
}

// unreadCounts counts messages accountID has not read, per conversation.
func (s *ConversationService) unreadCounts(ctx context.Context, convIDs []string, accountID string) (map[string]int64, error) {
	out := make(map[string]int64, len(convIDs))
	if len(convIDs) == 0 {
		return out, nil
	}

	var rows []unreadRow
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS unread").
		Where("conversation_id IN ? AND sender_id <> ? AND is_read = ?", convIDs, accountID, false).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "message")
	}
	for _, r := range rows {
		out[r.ConversationID] = r.Unread
	}
	return out, nil
}

// counterparts maps conversation id to the other party as seen by accountID.
// A client sees the instructor when both professional slots are filled.
func (s *ConversationService) counterparts(ctx context.Context, accountID string, convs []models.Conversation) (map[string]models.User, error) {
	db := s.db.WithContext(ctx)

	var dieticianProfiles []string
	for _, conv := range convs {
		if conv.DieticianID != nil {
			dieticianProfiles = append(dieticianProfiles, *conv.DieticianID)
		}
	}
	profileToUser := make(map[string]string, len(dieticianProfiles))
	if len(dieticianProfiles) > 0 {
		var rows []models.Dietician
		if err := db.Select("id", "user_id").Where("id IN ?", dieticianProfiles).Find(&rows).Error; err != nil {
			return nil, apperrors.FromDB(err, "dietician profile")
		}
		for _, r := range rows {
			profileToUser[r.ID] = r.UserID
		}
	}

	want := make(map[string]string, len(convs)) // conversation -> counterpart account
	var ids []string
	for _, conv := range convs {
		var other string
		if conv.ClientID == accountID {
			if conv.InstructorID != nil {
				other = *conv.InstructorID
			} else if conv.DieticianID != nil {
				other = profileToUser[*conv.DieticianID]
			}
		} else {
			other = conv.ClientID
		}
		if other != "" {
			want[conv.ID] = other
			ids = append(ids, other)
		}
	}

	out := make(map[string]models.User, len(want))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Select("id", "name", "role").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for convID, userID := range want {
		if u, ok := byID[userID]; ok {
			out[convID] = u
		}
	}
	return out, nil
}
