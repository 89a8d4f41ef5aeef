package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
)

// POST /api/service/create
func CreateService(c *gin.Context) {
	var in models.ServiceFields
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()

	ctx, cancel := dbContext(c)
	defer cancel()

	service := models.Service{ServiceFields: in}
	err := saveWithSlug(ctx, &models.Service{}, &service, 0, service.Name, nil, func(s string) { service.Slug = s })
	if err != nil {
		utils.LogError("Failed to create service %q: %v", in.Name, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Service %d created with slug %s", service.ID, service.Slug)
	utils.Created(c, "Service created successfully", service)
}

// GET /api/service
func GetServices(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var services []models.Service
	q := config.DB.WithContext(ctx).Order("created_at DESC")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&services).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch services", err))
		return
	}
	utils.Success(c, "Services retrieved successfully", services)
}

// GET /api/service/slug/:slug
func GetServiceBySlug(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var service models.Service
	if err := loadBySlug(ctx, &service, c.Param("slug"), "Service"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Service retrieved successfully", service)
}

// POST /api/service/:id
func UpdateService(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var service models.Service
	if err := loadByID(ctx, &service, id, "Service"); err != nil {
		utils.RespondError(c, err)
		return
	}

	in := service.ServiceFields
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()

	slugChanged := in.Name != service.Name || service.Slug == ""
	service.ServiceFields = in

	if slugChanged {
		err = saveWithSlug(ctx, &models.Service{}, &service, service.ID, service.Name, nil, func(s string) { service.Slug = s })
	} else if err = config.DB.WithContext(ctx).Save(&service).Error; err != nil {
		err = utils.PersistenceError("Failed to update service", err)
	}
	if err != nil {
		utils.LogError("Failed to update service %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Service %d updated (slug %s)", service.ID, service.Slug)
	utils.Success(c, "Service updated successfully", service)
}

// DELETE /api/service/delete/:id
func DeleteService(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := deleteByID(ctx, &models.Service{}, id, "Service"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Service %d deleted", id)
	utils.Success(c, "Service deleted successfully", nil)
}

// DELETE /api/service/deleteAll
func DeleteAllServices(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	res := config.DB.WithContext(ctx).Where("1 = 1").Delete(&models.Service{})
	if res.Error != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to delete services", res.Error))
		return
	}
	utils.LogInfo("Deleted all %d services", res.RowsAffected)
	utils.Success(c, "All services deleted successfully", gin.H{"deleted": res.RowsAffected})
}
