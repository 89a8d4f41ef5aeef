package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
)

// POST /api/visitor/add
// A browser session is counted once; repeat calls just report the total.
func AddVisitor(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	counted := false
	if _, seen := utils.SessionVisitorID(c); !seen {
		visitor := models.Visitor{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := config.DB.WithContext(ctx).Create(&visitor).Error; err != nil {
			utils.RespondError(c, utils.PersistenceError("Failed to record visitor", err))
			return
		}
		if err := utils.RememberVisitor(c, visitor.ID); err != nil {
			utils.LogError("Visitor %d recorded but session not saved: %v", visitor.ID, err)
		}
		counted = true
	}

	var total int64
	if err := config.DB.WithContext(ctx).Model(&models.Visitor{}).Count(&total).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to count visitors", err))
		return
	}

	utils.Success(c, "Visitor recorded", gin.H{
		"total_visitors": total,
		"counted":        counted,
	})
}

// GET /api/visitor/visitors
func GetVisitors(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	p := utils.NewPagination(c)
	var total int64
	if err := config.DB.WithContext(ctx).Model(&models.Visitor{}).Count(&total).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to count visitors", err))
		return
	}
	p.SetTotal(total)

	var visitors []models.Visitor
	if err := config.DB.WithContext(ctx).Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&visitors).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch visitors", err))
		return
	}
	utils.SuccessWithPagination(c, "Visitors retrieved successfully", visitors, p)
}
