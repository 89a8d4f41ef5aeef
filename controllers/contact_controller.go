package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"github.com/tealeg/xlsx"
)

// POST /api/contact
// The submission is stored before any mail goes out. A mail failure is logged
// and reported through email_sent; it never fails the request.
func SubmitContact(c *gin.Context) {
	var in models.ContactFields
	if !bindAndValidate(c, &in) {
		return
	}
	if ok, msg := utils.ValidateXSS(in.Message); !ok {
		utils.RespondError(c, utils.InvalidInputError(msg, nil))
		return
	}
	in.Phone, _ = utils.FormatPhoneNumber(in.Phone)

	ctx, cancel := dbContext(c)
	defer cancel()

	contact := models.Contact{ContactFields: in}
	if err := config.DB.WithContext(ctx).Create(&contact).Error; err != nil {
		utils.LogError("Failed to store contact from %s: %v", in.Email, err)
		utils.RespondError(c, utils.PersistenceError("Failed to save contact", err))
		return
	}

	subject, text, html := utils.ContactConfirmation(in.FirstName, in.InquiryType, in.Message)
	to := utils.NonEmpty(in.Email, opts.AdminNotifyEmail)
	if err := opts.ContactMailer.Send(utils.MailMessage{To: to, Subject: subject, Text: text, HTML: html}); err != nil {
		utils.LogError("Contact %d stored but confirmation mail failed: %v", contact.ID, err)
	} else {
		contact.EmailSent = true
		if err := config.DB.WithContext(ctx).Model(&contact).Update("email_sent", true).Error; err != nil {
			utils.LogError("Failed to flag contact %d as mailed: %v", contact.ID, err)
		}
	}

	utils.LogInfo("Contact %d received (%s)", contact.ID, contact.InquiryType)
	utils.Created(c, "Your message has been received", contact)
}

// GET /api/contact
func GetContacts(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	p := utils.NewPagination(c)
	var total int64
	if err := config.DB.WithContext(ctx).Model(&models.Contact{}).Count(&total).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to count contacts", err))
		return
	}
	p.SetTotal(total)

	var contacts []models.Contact
	if err := config.DB.WithContext(ctx).Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&contacts).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch contacts", err))
		return
	}
	utils.SuccessWithPagination(c, "Contacts retrieved successfully", contacts, p)
}

// GET /api/contact/export
func ExportContacts(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	var contacts []models.Contact
	if err := config.DB.WithContext(ctx).Order("created_at ASC").Find(&contacts).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch contacts", err))
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Contacts")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString(utils.AppName + " - Contact Submissions")
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Exported: " + time.Now().Format("2006-01-02 15:04"))
	sheet.AddRow()

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	headers := []string{"ID", "Date", "First Name", "Last Name", "Email", "Phone", "Inquiry Type", "Heard From", "Message", "Email Sent"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for _, ct := range contacts {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(ct.ID))
		row.AddCell().SetString(ct.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(ct.FirstName)
		row.AddCell().SetString(ct.LastName)
		row.AddCell().SetString(ct.Email)
		row.AddCell().SetString(ct.Phone)
		row.AddCell().SetString(ct.InquiryType)
		row.AddCell().SetString(ct.HeardFrom)
		row.AddCell().SetString(ct.Message)
		row.AddCell().SetBool(ct.EmailSent)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=contacts_%s.xlsx", time.Now().Format("20060102")))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Exported %d contacts", len(contacts))
}
