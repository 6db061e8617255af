package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/storage"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apperrors.Unauthorized("Invalid credentials")
	ErrEmailTaken         = apperrors.BadRequest("An account with this email already exists")
	ErrStorageDisabled    = apperrors.NewAppError(http.StatusServiceUnavailable, "File storage is not configured")
)

type RegisterInput struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role" binding:"required"`
}

// UpdateAccountInput is a partial update; nil fields are left untouched.
type UpdateAccountInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AccountService struct {
	db        *gorm.DB
	jwtSecret string
	blacklist *database.TokenBlacklist
	store     storage.ObjectStore
}

func NewAccountService(db *gorm.DB, jwtSecret string, blacklist *database.TokenBlacklist, store storage.ObjectStore) *AccountService {
	return &AccountService{db: db, jwtSecret: jwtSecret, blacklist: blacklist, store: store}
}

func validatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasNumber {
		return apperrors.BadRequest("Password must be at least 8 characters and contain an uppercase letter, a lowercase letter and a number")
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if !input.Role.SelfRegistrable() {
		return nil, apperrors.BadRequest("Role must be client, instructor or dietician")
	}
	email := utils.NormalizeEmail(input.Email)
	if !utils.ValidEmail(email) {
		return nil, apperrors.BadRequest("Invalid email address")
	}
	if err := validatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		return nil, apperrors.Internal("Failed to hash password")
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Phone:    strings.TrimSpace(input.Phone),
		Password: string(hashed),
		Role:     input.Role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperrors.FromDB(err, "account")
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		return nil, apperrors.Internal("Failed to generate token")
	}

	logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", utils.NormalizeEmail(email)).Limit(1).Find(&user).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	if user.ID == "" {
		logger.Warn().Str("email", email).Msg("Login failed: user not found")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Warn().Str("user_id", user.ID).Msg("Login failed: invalid password")
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		return nil, apperrors.Internal("Failed to generate token")
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Logout revokes the token until it would expire. Without Redis it is a
// no-op.
func (s *AccountService) Logout(ctx context.Context, claims *utils.Claims) {
	if claims == nil {
		return
	}
	if err := s.blacklist.Revoke(ctx, claims.GetJTI(), claims.TTL()); err != nil {
		logger.Error().Err(err).Str("jti", claims.GetJTI()).Msg("Failed to blacklist token")
	}
}

func (s *AccountService) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	return &user, nil
}

// Update writes only the provided fields.
func (s *AccountService) Update(ctx context.Context, userID string, input UpdateAccountInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.BadRequest("Name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if !utils.ValidEmail(email) {
			return nil, apperrors.BadRequest("Invalid email address")
		}
		updates["email"] = email
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("No fields to update")
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		if apperrors.IsDuplicateKey(result.Error) {
			return nil, ErrEmailTaken
		}
		return nil, apperrors.FromDB(result.Error, "account")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("account not found")
	}
	return s.Get(ctx, userID)
}

func (s *AccountService) UploadAvatar(ctx context.Context, userID, filename, contentType string, body io.Reader) (*models.User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.BadRequest("Avatar must be an image")
	}

	key := fmt.Sprintf("avatars/%s/%s%s", userID, utils.GenerateID(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.store.Put(ctx, key, body, contentType)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Avatar upload failed")
		return nil, apperrors.Internal("Upload failed")
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", url).Error; err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	return s.Get(ctx, userID)
}

// List returns accounts newest first, optionally filtered by role and by a
// case-insensitive name or email fragment.
func (s *AccountService) List(ctx context.Context, role, search string) ([]models.User, error) {
	users := []models.User{}
	q := s.db.WithContext(ctx).Order("created_at desc")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if strings.TrimSpace(search) != "" {
		pattern := strings.ToLower(utils.SanitizeSearchQuery(search))
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	return users, nil
}

// PromoteToAdmin is used by the ops CLI.
func (s *AccountService) PromoteToAdmin(ctx context.Context, email string) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", utils.NormalizeEmail(email)).
		Update("role", models.RoleAdmin)
	if result.Error != nil {
		return nil, apperrors.FromDB(result.Error, "account")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("account not found")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", utils.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, apperrors.FromDB(err, "account")
	}
	return &user, nil
}
