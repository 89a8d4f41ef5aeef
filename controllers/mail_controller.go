package controllers

import (
	"errors"
	"html"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/utils"
)

// SendMailRequest is the body of POST /api/mail/send
type SendMailRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

// POST /api/mail/send
func SendMail(c *gin.Context) {
	var req SendMailRequest
	if !bindJSON(c, &req) {
		return
	}

	body := "<p>" + strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>") + "</p>"
	err := opts.Mailer.Send(utils.MailMessage{
		To:      []string{req.Email},
		Subject: req.Subject,
		Text:    req.Message,
		HTML:    body,
	})
	if errors.Is(err, utils.ErrMailDisabled) {
		utils.RespondError(c, utils.UpstreamError("Mail delivery is not configured", err))
		return
	}
	if err != nil {
		utils.LogError("Failed to send mail to %s: %v", req.Email, err)
		utils.RespondError(c, utils.UpstreamError("Failed to send email", err))
		return
	}

	utils.LogInfo("Mail sent to %s", req.Email)
	utils.Success(c, "Email sent successfully", nil)
}
