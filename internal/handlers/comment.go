package handlers

import (
	"fmt"
	"net/http"

	"divelink/internal/db"
	"divelink/internal/discussion"
	"divelink/internal/models"
	"divelink/internal/services"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	store       *discussion.Store
	mailService *services.MailService
	siteURL     string
}

func NewCommentHandler(store *discussion.Store, mail *services.MailService, siteURL string) *CommentHandler {
	return &CommentHandler{store: store, mailService: mail, siteURL: siteURL}
}

type commentForm struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// Create adds a comment or a one-level reply. The post author gets an
// in-app notification from the data layer and a best-effort email here.
func (h *CommentHandler) Create(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	var form commentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "댓글 내용을 입력해 주세요.")
		return
	}

	user := CurrentUser(c)
	comment, err := h.store.AddComment(post.ID, user.ID, form.Content, form.ParentID)
	if err != nil {
		discussionError(c, err)
		return
	}

	if post.UserID != user.ID {
		var author models.User
		if db.DB.First(&author, post.UserID).Error == nil {
			link := fmt.Sprintf("%s/boards/%s/posts/%s", h.siteURL, post.Board.Slug, post.Pid)
			h.mailService.SendCommentNotification(author.Email, user.Nickname, post.Title, comment.Content, link)
		}
	}

	comment.User = *user
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Delete removes a comment and its replies. Author or admin.
func (h *CommentHandler) Delete(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	commentID := uint(utils.StringToInt(c.Param("id")))
	user := CurrentUser(c)

	if err := h.store.DeleteComment(post.ID, commentID, user.ID); err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LikePost bumps a post's like count, once per user.
func (h *CommentHandler) LikePost(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	user := CurrentUser(c)
	likes, err := h.store.LikePost(post.ID, user.ID)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// LikeComment bumps a comment's like count, once per user.
func (h *CommentHandler) LikeComment(c *gin.Context) {
	commentID := uint(utils.StringToInt(c.Param("id")))
	user := CurrentUser(c)

	likes, err := h.store.LikeComment(commentID, user.ID)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// Accept marks a comment as the accepted answer on a Q&A post.
func (h *CommentHandler) Accept(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	commentID := uint(utils.StringToInt(c.Param("id")))
	user := CurrentUser(c)

	if err := h.store.MarkAccepted(post.ID, commentID, user.ID); err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted_comment_id": commentID})
}
