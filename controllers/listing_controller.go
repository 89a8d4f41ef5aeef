package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

// GET /api/listing
func GetVisibleListings(c *gin.Context) {
	listListings(c, true)
}

// GET /api/listing/all
func GetAllListings(c *gin.Context) {
	listListings(c, false)
}

func listListings(c *gin.Context, visibleOnly bool) {
	ctx, cancel := dbContext(c)
	defer cancel()

	p := utils.NewPagination(c)
	query := func() *gorm.DB {
		q := config.DB.WithContext(ctx).Model(&models.Listing{})
		if visibleOnly {
			q = q.Where("visible = ?", true)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to count listings", err))
		return
	}
	p.SetTotal(total)

	var listings []models.Listing
	if err := query().Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&listings).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch listings", err))
		return
	}

	utils.LogInfo("Fetched %d listings (visible only: %v)", len(listings), visibleOnly)
	utils.SuccessWithPagination(c, "Listings retrieved successfully", listings, p)
}

// GET /api/listing/slug/:slug
func GetListingBySlug(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var listing models.Listing
	if err := loadBySlug(ctx, &listing, c.Param("slug"), "Listing"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Listing retrieved successfully", listing)
}

// GET /api/listing/:id
func GetListingByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var listing models.Listing
	if err := loadByID(ctx, &listing, id, "Listing"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Listing retrieved successfully", listing)
}

// POST /api/listing/create
func CreateListing(c *gin.Context) {
	in := models.ListingFields{Visible: true}
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()

	ctx, cancel := dbContext(c)
	defer cancel()

	listing := models.Listing{ListingFields: in}
	err := saveWithSlug(ctx, &models.Listing{}, &listing, 0, listing.Title, listing.SlugParts(), func(s string) { listing.Slug = s })
	if err != nil {
		utils.LogError("Failed to create listing %q: %v", in.Title, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Listing %d created with slug %s", listing.ID, listing.Slug)
	utils.Created(c, "Listing created successfully", listing)
}

// PUT /api/listing/update/:id
func UpdateListing(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var listing models.Listing
	if err := loadByID(ctx, &listing, id, "Listing"); err != nil {
		utils.RespondError(c, err)
		return
	}

	// Fields missing from the body keep their stored values.
	in := listing.ListingFields
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()

	slugChanged := in.Title != listing.Title ||
		in.PropertyType != listing.PropertyType ||
		in.Location.City != listing.Location.City ||
		listing.Slug == ""
	listing.ListingFields = in

	if slugChanged {
		err = saveWithSlug(ctx, &models.Listing{}, &listing, listing.ID, listing.Title, listing.SlugParts(), func(s string) { listing.Slug = s })
	} else if err = config.DB.WithContext(ctx).Save(&listing).Error; err != nil {
		err = utils.PersistenceError("Failed to update listing", err)
	}
	if err != nil {
		utils.LogError("Failed to update listing %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Listing %d updated (slug %s)", listing.ID, listing.Slug)
	utils.Success(c, "Listing updated successfully", listing)
}

// DELETE /api/listing/delete/:id
func DeleteListing(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := deleteByID(ctx, &models.Listing{}, id, "Listing"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Listing %d deleted", id)
	utils.Success(c, "Listing deleted successfully", nil)
}
