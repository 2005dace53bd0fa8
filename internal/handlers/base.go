package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"divelink/internal/discussion"
	"divelink/internal/middleware"
	"divelink/internal/models"

	"github.com/gin-gonic/gin"
)

// ObjectStorage is the slice of the object store the handlers need.
// Satisfied by *services.StorageService.
type ObjectStorage interface {
	Upload(ctx context.Context, prefix string, file multipart.File, header *multipart.FileHeader) (string, string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// CurrentUser returns the logged-in user set by middleware.LoadUser, or
// nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// discussionError maps the data-layer sentinel errors onto HTTP statuses.
func discussionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, discussion.ErrNotFound):
		jsonError(c, http.StatusNotFound, "찾을 수 없습니다.")
	case errors.Is(err, discussion.ErrForbidden):
		jsonError(c, http.StatusForbidden, "권한이 없습니다.")
	case errors.Is(err, discussion.ErrAlreadyLiked):
		jsonError(c, http.StatusConflict, "이미 좋아요를 눌렀습니다.")
	case errors.Is(err, discussion.ErrValidation):
		jsonError(c, http.StatusBadRequest, "잘못된 요청입니다.")
	default:
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
	}
}
