package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	apperrors "github.com/loycekalume/LifeStyleCoach-sub001/pkg/errors"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	accounts *services.AccountService
}

func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Me GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.accounts.Get(c.Request.Context(), requestContext(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input services.UpdateAccountInput
	if !bind(c, &input) {
		return
	}
	user, err := h.accounts.Update(c.Request.Context(), requestContext(c).UserID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadAvatar POST /users/me/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, apperrors.BadRequest("An image file is required in field \"file\""))
		return
	}
	defer file.Close()

	user, err := h.accounts.UploadAvatar(c.Request.Context(), requestContext(c).UserID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
