package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
)

// POST /api/testimonial/create
func CreateTestimonial(c *gin.Context) {
	var in models.TestimonialFields
	if !bindJSON(c, &in) {
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	testimonial := models.Testimonial{TestimonialFields: in}
	if err := config.DB.WithContext(ctx).Create(&testimonial).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to create testimonial", err))
		return
	}
	utils.LogInfo("Testimonial %d created by %s", testimonial.ID, testimonial.Author.Name)
	utils.Created(c, "Testimonial created successfully", testimonial)
}

// GET /api/testimonial
func GetTestimonials(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var testimonials []models.Testimonial
	if err := config.DB.WithContext(ctx).Order("created_at DESC").Find(&testimonials).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch testimonials", err))
		return
	}
	utils.Success(c, "Testimonials retrieved successfully", testimonials)
}

// GET /api/testimonial/:id
func GetTestimonialByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var testimonial models.Testimonial
	if err := loadByID(ctx, &testimonial, id, "Testimonial"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Testimonial retrieved successfully", testimonial)
}

// PUT /api/testimonial/:id
func UpdateTestimonial(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var testimonial models.Testimonial
	if err := loadByID(ctx, &testimonial, id, "Testimonial"); err != nil {
		utils.RespondError(c, err)
		return
	}

	in := testimonial.TestimonialFields
	if !bindJSON(c, &in) {
		return
	}
	testimonial.TestimonialFields = in

	if err := config.DB.WithContext(ctx).Save(&testimonial).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to update testimonial", err))
		return
	}
	utils.LogInfo("Testimonial %d updated", testimonial.ID)
	utils.Success(c, "Testimonial updated successfully", testimonial)
}

// DELETE /api/testimonial/:id
func DeleteTestimonial(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := deleteByID(ctx, &models.Testimonial{}, id, "Testimonial"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Testimonial %d deleted", id)
	utils.Success(c, "Testimonial deleted successfully", nil)
}

// DELETE /api/testimonial/deleteAll
func DeleteAllTestimonials(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	res := config.DB.WithContext(ctx).Where("1 = 1").Delete(&models.Testimonial{})
	if res.Error != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to delete testimonials", res.Error))
		return
	}
	utils.LogInfo("Deleted all %d testimonials", res.RowsAffected)
	utils.Success(c, "All testimonials deleted successfully", gin.H{"deleted": res.RowsAffected})
}
