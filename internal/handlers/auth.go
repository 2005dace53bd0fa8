package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"divelink/internal/db"
	"divelink/internal/models"
	"divelink/internal/services"
	"divelink/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler(mail *services.MailService) *AuthHandler {
	return &AuthHandler{mailService: mail}
}

type registerForm struct {
	Nickname string `json:"nickname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Agency   string `json:"agency"`
	Level    string `json:"level"`
}

// Register creates the account, mails a verification code and logs the
// user in right away. Member-only boards stay closed until the code is
// confirmed.
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "닉네임, 이메일, 비밀번호(8자 이상)를 확인해 주세요.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))

	var existing models.User
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		jsonError(c, http.StatusConflict, "이미 가입된 이메일입니다.")
		return
	}

	hashed, err := utils.HashPassword(form.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	user := models.User{
		Nickname:   strings.TrimSpace(form.Nickname),
		Email:      email,
		Password:   hashed,
		VerifyCode: utils.GenerateRandomCode(6),
	}
	if form.Agency != "" {
		user.Agency = form.Agency
	}
	if form.Level != "" {
		user.Level = form.Level
		user.LevelIcon = utils.LevelIcon(form.Level)
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusConflict, "이미 가입된 이메일입니다.")
			return
		}
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	h.mailService.SendVerificationEmail(user.Email, user.VerifyCode)
	h.startSession(c, &user)

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type verifyForm struct {
	Code string `json:"code" binding:"required"`
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	user := CurrentUser(c)

	var form verifyForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "인증 코드를 입력해 주세요.")
		return
	}

	if user.IsVerified {
		c.JSON(http.StatusOK, gin.H{"verified": true})
		return
	}
	if user.VerifyCode == "" || form.Code != user.VerifyCode {
		jsonError(c, http.StatusBadRequest, "인증 코드가 올바르지 않습니다.")
		return
	}

	if err := db.DB.Model(user).Updates(map[string]interface{}{
		"is_verified": true,
		"verify_code": "",
	}).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// ResendCode issues a fresh verification code for the logged-in user.
func (h *AuthHandler) ResendCode(c *gin.Context) {
	user := CurrentUser(c)
	if user.IsVerified {
		c.JSON(http.StatusOK, gin.H{"verified": true})
		return
	}

	code := utils.GenerateRandomCode(6)
	if err := db.DB.Model(user).Update("verify_code", code).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	h.mailService.SendVerificationEmail(user.Email, code)
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type loginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "이메일과 비밀번호를 입력해 주세요.")
		return
	}

	var user models.User
	err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(form.Email))).First(&user).Error
	if err != nil || !utils.CheckPasswordHash(form.Password, user.Password) {
		jsonError(c, http.StatusUnauthorized, "이메일 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	h.startSession(c, &user)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if user := CurrentUser(c); user != nil {
		db.DB.Model(user).Update("is_online", false)
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type forgotForm struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword mails a reset code. The response is the same whether
// the address exists or not.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var form forgotForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "이메일을 입력해 주세요.")
		return
	}

	var user models.User
	err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(form.Email))).First(&user).Error
	if err == nil {
		code := utils.GenerateRandomCode(6)
		if db.DB.Model(&user).Update("verify_code", code).Error == nil {
			h.mailService.SendPasswordResetEmail(user.Email, code)
		}
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type resetForm struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form resetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "이메일, 코드, 새 비밀번호(8자 이상)를 확인해 주세요.")
		return
	}

	var user models.User
	err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(form.Email))).First(&user).Error
	if err != nil || user.VerifyCode == "" || user.VerifyCode != form.Code {
		jsonError(c, http.StatusBadRequest, "재설정 코드가 올바르지 않습니다.")
		return
	}

	hashed, err := utils.HashPassword(form.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	if err := db.DB.Model(&user).Updates(map[string]interface{}{
		"password":    hashed,
		"verify_code": "",
	}).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type changePasswordForm struct {
	Current string `json:"current_password" binding:"required"`
	New     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword requires the current password again even though the
// user is logged in.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := CurrentUser(c)

	var form changePasswordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "현재 비밀번호와 새 비밀번호(8자 이상)를 입력해 주세요.")
		return
	}
	if !utils.CheckPasswordHash(form.Current, user.Password) {
		jsonError(c, http.StatusForbidden, "현재 비밀번호가 올바르지 않습니다.")
		return
	}

	hashed, err := utils.HashPassword(form.New)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	if err := db.DB.Model(user).Update("password", hashed).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type deleteAccountForm struct {
	Password string `json:"password" binding:"required"`
}

// DeleteAccount removes the user and everything they own.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	user := CurrentUser(c)

	var form deleteAccountForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "비밀번호를 입력해 주세요.")
		return
	}
	if !utils.CheckPasswordHash(form.Password, user.Password) {
		jsonError(c, http.StatusForbidden, "비밀번호가 올바르지 않습니다.")
		return
	}

	if err := db.DeleteUserContent(user.ID); err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	now := time.Now()
	db.DB.Model(user).Updates(map[string]interface{}{
		"is_online":  true,
		"last_login": now,
	})
	user.IsOnline = true
	user.LastLogin = &now
}
