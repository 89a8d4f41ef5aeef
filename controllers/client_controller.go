package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
)

// POST /api/client/createClient
func CreateClient(c *gin.Context) {
	in := models.ClientFields{Visible: true}
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()
	if in.Phone != "" {
		in.Phone, _ = utils.FormatPhoneNumber(in.Phone)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	client := models.Client{ClientFields: in}
	if err := config.DB.WithContext(ctx).Create(&client).Error; err != nil {
		utils.LogError("Failed to create client %q: %v", in.Name, err)
		utils.RespondError(c, utils.PersistenceError("Failed to create client", err))
		return
	}

	utils.LogInfo("Client %d created: %s", client.ID, client.Name)
	utils.Created(c, "Client created successfully", client)
}

// GET /api/client
func GetClients(c *gin.Context) {
	ctx, cancel := dbContext(c)
	defer cancel()

	q := config.DB.WithContext(ctx).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if c.Query("visible") == "true" {
		q = q.Where("visible = ?", true)
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch clients", err))
		return
	}
	utils.Success(c, "Clients retrieved successfully", clients)
}

// GET /api/client/:id
func GetClientByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var client models.Client
	if err := loadByID(ctx, &client, id, "Client"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Client retrieved successfully", client)
}

// POST /api/client/:id and PUT /api/client/:id
func UpdateClient(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var client models.Client
	if err := loadByID(ctx, &client, id, "Client"); err != nil {
		utils.RespondError(c, err)
		return
	}

	in := client.ClientFields
	if !bindAndValidate(c, &in) {
		return
	}
	in.ApplyDefaults()
	if in.Phone != "" {
		in.Phone, _ = utils.FormatPhoneNumber(in.Phone)
	}
	client.ClientFields = in

	if err := config.DB.WithContext(ctx).Omit("Payments").Save(&client).Error; err != nil {
		utils.LogError("Failed to update client %d: %v", id, err)
		utils.RespondError(c, utils.PersistenceError("Failed to update client", err))
		return
	}

	utils.LogInfo("Client %d updated", client.ID)
	utils.Success(c, "Client updated successfully", client)
}

// GET /api/client/:id/payments
func GetClientPayments(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var client models.Client
	if err := loadByID(ctx, &client, id, "Client"); err != nil {
		utils.RespondError(c, err)
		return
	}

	var history []models.ClientPayment
	if err := config.DB.WithContext(ctx).Where("client_id = ?", id).Order("created_at ASC").Find(&history).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch payment history", err))
		return
	}

	var total int64
	for _, p := range history {
		total += p.Amount
	}
	utils.Success(c, "Payment history retrieved successfully", gin.H{
		"client_id":    client.ID,
		"payments":     history,
		"total_amount": total,
	})
}
