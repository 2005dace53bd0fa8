package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"divelink/internal/db"
	"divelink/internal/discussion"
	"divelink/internal/models"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	store   *discussion.Store
	storage ObjectStorage
}

func NewAdminHandler(store *discussion.Store, storage ObjectStorage) *AdminHandler {
	return &AdminHandler{store: store, storage: storage}
}

// Dashboard returns headline counts, per-board post counts and the
// latest signups and posts.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var userCount, postCount, commentCount, onlineCount, todaySignups int64
	db.DB.Model(&models.User{}).Count(&userCount)
	db.DB.Model(&models.Post{}).Count(&postCount)
	db.DB.Model(&models.Comment{}).Count(&commentCount)
	db.DB.Model(&models.User{}).Where("is_online = ?", true).Count(&onlineCount)

	midnight := time.Now().Truncate(24 * time.Hour)
	db.DB.Model(&models.User{}).Where("created_at >= ?", midnight).Count(&todaySignups)

	type boardCount struct {
		Slug  string `json:"slug"`
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	var boardCounts []boardCount
	db.DB.Model(&models.Board{}).
		Select("boards.slug, boards.name, COUNT(posts.id) as count").
		Joins("LEFT JOIN posts ON posts.board_id = boards.id").
		Group("boards.id, boards.slug, boards.name").
		Order("boards.id ASC").
		Scan(&boardCounts)

	var recentUsers []models.User
	db.DB.Order("created_at DESC").Limit(10).Find(&recentUsers)

	var recentPosts []models.Post
	db.DB.Preload("User").Preload("Board").
		Order("created_at DESC").Limit(10).Find(&recentPosts)
	fillCommentCounts(recentPosts)

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"users":         userCount,
			"posts":         postCount,
			"comments":      commentCount,
			"online":        onlineCount,
			"today_signups": todaySignups,
		},
		"board_counts": boardCounts,
		"recent_users": recentUsers,
		"recent_posts": recentPosts,
	})
}

// ListUsers pages through the member list for moderation.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := 50

	var total int64
	db.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	db.DB.Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users)

	c.JSON(http.StatusOK, gin.H{"users": users, "page": page, "total": total})
}

// DeleteUser removes a member and all of their content.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	targetID := uint(utils.StringToInt(c.Param("id")))
	admin := CurrentUser(c)
	if targetID == admin.ID {
		jsonError(c, http.StatusBadRequest, "자기 자신은 삭제할 수 없습니다.")
		return
	}

	var target models.User
	if err := db.DB.First(&target, targetID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "회원을 찾을 수 없습니다.")
		return
	}

	if err := db.DeleteUserContent(target.ID); err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// WriteNotice pins an announcement above a board's regular posts.
func (h *AdminHandler) WriteNotice(c *gin.Context) {
	board, err := loadBoard(c.Param("slug"))
	if err != nil {
		jsonError(c, http.StatusNotFound, "게시판을 찾을 수 없습니다.")
		return
	}

	var form postForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "제목과 내용을 입력해 주세요.")
		return
	}

	admin := CurrentUser(c)
	post := models.Post{
		Pid:      utils.RandStringBytesMaskImpr(8),
		UserID:   admin.ID,
		BoardID:  board.ID,
		Title:    form.Title,
		Content:  form.Content,
		IsPublic: true,
		IsNotice: true,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// DeletePost lets an admin take down any post by public id.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	keys, err := db.DeletePostContent(post.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, key := range keys {
			if err := h.storage.Delete(ctx, key); err != nil {
				log.Printf("Failed to delete object %s: %v", key, err)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
