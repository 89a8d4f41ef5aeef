package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

// GET /api/stats
func GetStats(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var stats models.Stats
	err := config.DB.WithContext(ctx).Order("id ASC").First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, utils.NotFoundError("Stats not found", nil))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch stats", err))
		return
	}
	utils.Success(c, "Stats retrieved successfully", stats)
}

// POST /api/stats/create
func CreateStats(c *gin.Context) {
	var in models.StatsFields
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	stats := models.Stats{StatsFields: in}
	if err := config.DB.WithContext(ctx).Create(&stats).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to create stats", err))
		return
	}
	utils.LogInfo("Stats %d created", stats.ID)
	utils.Created(c, "Stats created successfully", stats)
}

// PUT /api/stats/:id
func UpdateStats(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var stats models.Stats
	if err := loadByID(ctx, &stats, id, "Stats"); err != nil {
		utils.RespondError(c, err)
		return
	}
	in := stats.StatsFields
	if !bindJSON(c, &in) {
		return
	}
	stats.StatsFields = in

	if err := config.DB.WithContext(ctx).Save(&stats).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to update stats", err))
		return
	}
	utils.LogInfo("Stats %d updated", stats.ID)
	utils.Success(c, "Stats updated successfully", stats)
}

// GET /api/general
func GetGeneral(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var general models.General
	err := config.DB.WithContext(ctx).Order("id ASC").First(&general).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, utils.NotFoundError("General settings not found", nil))
		return
	}
	if err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch general settings", err))
		return
	}
	utils.Success(c, "General settings retrieved successfully", general)
}

// POST /api/general/create
func CreateGeneral(c *gin.Context) {
	var in models.GeneralFields
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	general := models.General{GeneralFields: in}
	if err := config.DB.WithContext(ctx).Create(&general).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to create general settings", err))
		return
	}
	utils.LogInfo("General settings %d created", general.ID)
	utils.Created(c, "General settings created successfully", general)
}

// POST /api/general/:id
// Body fields that are present and non-empty replace the stored values.
func UpdateGeneral(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var general models.General
	if err := loadByID(ctx, &general, id, "General settings"); err != nil {
		utils.RespondError(c, err)
		return
	}

	// Partial body: decode without the create-time required checks.
	raw, err := c.GetRawData()
	if err != nil {
		utils.RespondError(c, utils.InvalidInputError("Invalid request", err))
		return
	}
	var patch models.GeneralFields
	if err := json.Unmarshal(raw, &patch); err != nil {
		utils.RespondError(c, utils.InvalidInputError("Invalid request", err))
		return
	}
	if patch.Email != "" {
		if ok, msg := utils.ValidateEmail(patch.Email); !ok {
			utils.RespondError(c, utils.InvalidInputError(msg, nil))
			return
		}
	}
	mergeNonEmpty(&general.GeneralFields, patch)

	if err := config.DB.WithContext(ctx).Save(&general).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to update general settings", err))
		return
	}
	utils.LogInfo("General settings %d updated", general.ID)
	utils.Success(c, "General settings updated successfully", general)
}

func mergeNonEmpty(dst *models.GeneralFields, patch models.GeneralFields) {
	fields := []struct {
		dst *string
		src string
	}{
		{&dst.Logo, patch.Logo},
		{&dst.Title, patch.Title},
		{&dst.About, patch.About},
		{&dst.Contact, patch.Contact},
		{&dst.Email, patch.Email},
		{&dst.Phone, patch.Phone},
		{&dst.Address, patch.Address},
		{&dst.Facebook, patch.Facebook},
		{&dst.Instagram, patch.Instagram},
		{&dst.LinkedIn, patch.LinkedIn},
		{&dst.Terms, patch.Terms},
		{&dst.Privacy, patch.Privacy},
		{&dst.Youtube, patch.Youtube},
		{&dst.ShippingPolicy, patch.ShippingPolicy},
		{&dst.RefundPolicy, patch.RefundPolicy},
	}
	for _, f := range fields {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}
