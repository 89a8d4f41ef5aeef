package controllers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/middleware"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

// RegisterRequest is the body of POST /api/user/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest is the body of POST /api/user/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the body of PUT /api/user/change-password
type ChangePasswordRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/user/register
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = utils.RoleUser
	}

	if ok, msg := utils.ValidateUsername(req.Username); !ok {
		utils.RespondError(c, utils.InvalidInputError(msg, nil))
		return
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		utils.RespondError(c, utils.InvalidInputError(msg, nil))
		return
	}
	if err := utils.CheckEnum("role", req.Role, []string{utils.RoleAdmin, utils.RoleUser}); err != nil {
		utils.RespondError(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password for %s: %v", req.Username, err)
		utils.RespondError(c, utils.NewAppError(utils.KindPersistence, "Failed to process password", err))
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	user := models.User{Username: req.Username, Password: hash, Role: req.Role}
	err = config.DB.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.RespondError(c, utils.ConflictError("Username already exists", err))
		return
	}
	if err != nil {
		utils.LogError("Failed to create user %s: %v", req.Username, err)
		utils.RespondError(c, utils.PersistenceError("Failed to create user", err))
		return
	}

	utils.LogInfo("User %d registered as %s", user.ID, user.Role)
	utils.Created(c, "User registered successfully", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// POST /api/user/login
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	var user models.User
	err := config.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, utils.PersistenceError("Failed to load user", err))
		return
	}
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		utils.LogSecurity("Login failed for %q from %s", req.Username, c.ClientIP())
		utils.RespondError(c, utils.UnauthorizedError(utils.ErrInvalidCredentials, nil))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, opts.JWTSecret)
	if err != nil {
		utils.LogError("Failed to sign token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"id":    user.ID,
		"token": token,
		"role":  user.Role,
	})
}

type userSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// GET /api/user
func GetUsers(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var users []userSummary
	if err := config.DB.WithContext(ctx).Model(&models.User{}).Select("id", "username", "role").Order("id ASC").Find(&users).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch users", err))
		return
	}
	utils.Success(c, "Users retrieved successfully", users)
}

// GET /api/user/:id
func GetUserByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var user models.User
	if err := loadByID(ctx, &user, id, "User"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "User retrieved successfully", user)
}

// PUT /api/user/change-password
// Admins may change anyone's password, other users only their own.
func ChangePassword(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		utils.RespondError(c, utils.UnauthorizedError(utils.ErrUnauthorized, nil))
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		utils.RespondError(c, utils.InvalidInputError(msg, nil))
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	var target models.User
	err := config.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(req.Username)).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, utils.NotFoundError("User not found", nil))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to load user", err))
		return
	}

	if !caller.IsAdmin() && caller.ID != target.ID {
		utils.LogSecurity("User %d attempted to change the password of user %d", caller.ID, target.ID)
		utils.RespondError(c, utils.ForbiddenError("You can only change your own password", nil))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, utils.NewAppError(utils.KindPersistence, "Failed to process password", err))
		return
	}
	if err := config.DB.WithContext(ctx).Model(&target).Update("password", hash).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to update password", err))
		return
	}

	utils.LogInfo("Password of user %d changed by user %d", target.ID, caller.ID)
	utils.Success(c, "Password updated successfully", nil)
}

// DELETE /api/user/delete/:id
func DeleteUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if caller, ok := middleware.CurrentUser(c); ok && caller.ID == id {
		utils.RespondError(c, utils.ConflictError("You cannot delete your own account", nil))
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if err := deleteByID(ctx, &models.User{}, id, "User"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("User %d deleted", id)
	utils.Success(c, "User deleted successfully", nil)
}
