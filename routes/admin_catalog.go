package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
)

// GetAllServices returns the full service catalog, including inactive entries
func GetAllServices(c *gin.Context) {
	var catalog []models.Service
	if err := database.DB.Order("name ASC").Find(&catalog).Error; err != nil {
		log.Printf("❌ Failed to fetch services: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalog,
		"total":   len(catalog),
	})
}

// CreateService adds a service to the catalog
func CreateService(c *gin.Context) {
	var req models.ServiceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "message": err.Error()})
		return
	}

	if req.BasePrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Base price must be greater than zero"})
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Duration:    req.Duration,
		IsActive:    true,
	}

	if err := database.DB.Create(&service).Error; err != nil {
		log.Printf("❌ Failed to create service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	log.Printf("✅ Service %q created", service.Name)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Service created successfully",
		"data":    service,
	})
}

// UpdateService updates a catalog service
func UpdateService(c *gin.Context) {
	serviceID := c.Param("id")

	var service models.Service
	if err := database.DB.First(&service, serviceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		BasePrice   *float64 `json:"base_price"`
		Duration    *string  `json:"duration"`
		IsActive    *bool    `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Base price must be greater than zero"})
			return
		}
		service.BasePrice = *req.BasePrice
	}
	if req.Duration != nil {
		service.Duration = *req.Duration
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&service).Error; err != nil {
		log.Printf("❌ Failed to update service %s: %v", serviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service updated successfully",
		"data":    service,
	})
}

// DeleteService soft-deletes a catalog service
func DeleteService(c *gin.Context) {
	serviceID := c.Param("id")

	var service models.Service
	if err := database.DB.First(&service, serviceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	if err := database.DB.Delete(&service).Error; err != nil {
		log.Printf("❌ Failed to delete service %s: %v", serviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deleted successfully",
	})
}

// GetAllParts returns the parts inventory
func GetAllParts(c *gin.Context) {
	var parts []models.Part
	if err := database.DB.Order("name ASC").Find(&parts).Error; err != nil {
		log.Printf("❌ Failed to fetch parts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    parts,
		"total":   len(parts),
	})
}

// CreatePart adds a part to the inventory
func CreatePart(c *gin.Context) {
	var req models.PartCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "message": err.Error()})
		return
	}

	part := models.Part{
		Name:       req.Name,
		PartNumber: req.PartNumber,
		Price:      req.Price,
		Stock:      req.Stock,
	}

	if err := database.DB.Create(&part).Error; err != nil {
		log.Printf("❌ Failed to create part: %v", err)
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create part", "message": "Part number may already exist"})
		return
	}

	log.Printf("✅ Part %q (%s) added to inventory", part.Name, part.PartNumber)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Part created successfully",
		"data":    part,
	})
}

// UpdatePartStock adjusts inventory for a part
func UpdatePartStock(c *gin.Context) {
	partID := c.Param("id")

	var req struct {
		Stock *int     `json:"stock" binding:"required"`
		Price *float64 `json:"price"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if *req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
		return
	}

	var part models.Part
	if err := database.DB.First(&part, partID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}

	part.Stock = *req.Stock
	if req.Price != nil {
		part.Price = *req.Price
	}

	if err := database.DB.Save(&part).Error; err != nil {
		log.Printf("❌ Failed to update part %s: %v", partID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Part updated successfully",
		"data":    part,
	})
}

// DeletePart removes a part from the inventory
func DeletePart(c *gin.Context) {
	partID := c.Param("id")

	var part models.Part
	if err := database.DB.First(&part, partID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}

	if err := database.DB.Delete(&part).Error; err != nil {
		log.Printf("❌ Failed to delete part %s: %v", partID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete part"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Part deleted successfully",
	})
}
