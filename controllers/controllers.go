package controllers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/payments"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

// Options carries the collaborators handlers need. main builds it from config;
// tests build it by hand.
type Options struct {
	JWTSecret string

	Payments      *payments.Service
	RazorpayKeyID string

	// ContactMailer sends contact-form confirmations (SMTP).
	ContactMailer utils.Mailer
	// Mailer sends the /mail/send messages (SendGrid).
	Mailer           utils.Mailer
	AdminNotifyEmail string
}

var opts = Options{
	ContactMailer: utils.DisabledMailer{},
	Mailer:        utils.DisabledMailer{},
}

// Configure installs the handler dependencies
func Configure(o Options) {
	if o.ContactMailer == nil {
		o.ContactMailer = utils.DisabledMailer{}
	}
	if o.Mailer == nil {
		o.Mailer = utils.DisabledMailer{}
	}
	opts = o
}

// dbContext bounds the database work of one request
func dbContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), utils.DBTimeout)
}

// bindJSON decodes the body into dst and validates it. On failure the error
// response is written and false returned.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogError("Invalid request body on %s: %v", c.Request.URL.Path, err)
		c.JSON(utils.InvalidInputError("Invalid request", nil).Code, utils.StandardResponse{
			Status:  "error",
			Message: "Invalid request",
			Data: gin.H{
				"kind":   utils.KindInvalidInput,
				"fields": utils.BindingErrorMessages(err),
			},
		})
		return false
	}
	return true
}

type validatable interface {
	Validate() error
}

// bindAndValidate is bindJSON followed by the value's own Validate
func bindAndValidate(c *gin.Context, dst validatable) bool {
	if !bindJSON(c, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		utils.RespondError(c, err)
		return false
	}
	return true
}

// loadByID fills dst with the row whose primary key is id
func loadByID(ctx context.Context, dst interface{}, id uint, what string) error {
	err := config.DB.WithContext(ctx).First(dst, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError(what+" not found", nil)
	}
	if err != nil {
		return utils.PersistenceError("Failed to load "+strings.ToLower(what), err)
	}
	return nil
}

// loadBySlug fills dst with the row carrying slug
func loadBySlug(ctx context.Context, dst interface{}, slug, what string) error {
	err := config.DB.WithContext(ctx).Where("slug = ?", slug).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError(what+" not found", nil)
	}
	if err != nil {
		return utils.PersistenceError("Failed to load "+strings.ToLower(what), err)
	}
	return nil
}

// saveWithSlug assigns a unique slug and saves record. table is a zero value of
// the record's model, used for the uniqueness lookups; id is the record's own ID
// (zero before the first insert).
func saveWithSlug(ctx context.Context, table, record interface{}, id uint, title string, aux []string, setSlug func(string)) error {
	db := config.DB.WithContext(ctx)
	_, err := utils.AssignUniqueSlug(title, aux, id, utils.SlugExistsIn(db, table), func(slug string) error {
		setSlug(slug)
		return db.Save(record).Error
	})
	return err
}

// deleteByID removes the row with primary key id from model's table
func deleteByID(ctx context.Context, model interface{}, id uint, what string) error {
	res := config.DB.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return utils.PersistenceError("Failed to delete "+strings.ToLower(what), res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFoundError(what+" not found", nil)
	}
	return nil
}
