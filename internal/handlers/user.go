package handlers

import (
	"net/http"
	"strings"

	"divelink/internal/db"
	"divelink/internal/models"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me returns the logged-in user's own record.
func (h *UserHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"days_joined": utils.GetDaysSinceJoined(user.CreatedAt),
	})
}

// Profile is the public view of a member: certification, dive logs and
// their recent posts. Contact fields stay private.
func (h *UserHandler) Profile(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, utils.StringToInt(c.Param("id"))).Error; err != nil {
		jsonError(c, http.StatusNotFound, "회원을 찾을 수 없습니다.")
		return
	}

	var posts []models.Post
	db.DB.Preload("Board").
		Where("user_id = ? AND is_public = ?", user.ID, true).
		Order("created_at DESC").
		Limit(10).
		Find(&posts)
	fillCommentCounts(posts)

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"id":          user.ID,
			"nickname":    user.Nickname,
			"agency":      user.Agency,
			"level":       user.Level,
			"level_icon":  user.LevelIcon,
			"logs":        user.Logs,
			"is_online":   user.IsOnline,
			"days_joined": utils.GetDaysSinceJoined(user.CreatedAt),
		},
		"posts": posts,
	})
}

type profileForm struct {
	Nickname      string `json:"nickname"`
	Agency        string `json:"agency"`
	Level         string `json:"level"`
	Logs          int    `json:"logs"`
	Birthdate     string `json:"birthdate"`
	Phone         string `json:"phone"`
	Zipcode       string `json:"zipcode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detail_address"`
}

// UpdateProfile edits the caller's own profile. Changing the level also
// refreshes the badge icon.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := CurrentUser(c)

	var form profileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	updates := map[string]interface{}{
		"logs":           form.Logs,
		"birthdate":      form.Birthdate,
		"phone":          form.Phone,
		"zipcode":        form.Zipcode,
		"address":        form.Address,
		"detail_address": form.DetailAddress,
	}
	if nickname := strings.TrimSpace(form.Nickname); nickname != "" {
		updates["nickname"] = nickname
	}
	if form.Agency != "" {
		updates["agency"] = form.Agency
	}
	if form.Level != "" {
		updates["level"] = form.Level
		updates["level_icon"] = utils.LevelIcon(form.Level)
	}

	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// OnlineUsers lists members currently marked online.
func (h *UserHandler) OnlineUsers(c *gin.Context) {
	var users []models.User
	db.DB.Select("id, nickname, agency, level, level_icon, is_online, last_login").
		Where("is_online = ?", true).
		Order("last_login DESC").
		Limit(50).
		Find(&users)

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
