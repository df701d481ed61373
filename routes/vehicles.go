package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
)

// validateImageFile validates mimetype and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// RegisterVehicleRoutes registers vehicle management routes
func RegisterVehicleRoutes(router *gin.RouterGroup) {
	router.POST("", createVehicle)
	router.POST("/", createVehicle)
	router.GET("/my-vehicles", getMyVehicles)
	router.GET("/:id", getVehicle)
	router.POST("/:id/images", uploadVehicleImages)
}

// createVehicle registers a vehicle for the authenticated customer
func createVehicle(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.VehicleCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	vehicle := models.Vehicle{
		CustomerID:  userID,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		PlateNumber: strings.ToUpper(strings.TrimSpace(req.PlateNumber)),
		Color:       req.Color,
		Mileage:     req.Mileage,
	}

	if err := database.DB.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Vehicle registration failed",
			"message": "A vehicle with this plate number may already be registered",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle registered successfully",
		"data":    vehicle,
	})
}

// getMyVehicles lists the authenticated customer's vehicles
func getMyVehicles(c *gin.Context) {
	userID := c.GetUint("user_id")

	var vehicles []models.Vehicle
	if err := database.DB.Where("customer_id = ?", userID).Order("created_at DESC").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch vehicles",
			"message": "Please try again",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicles retrieved successfully",
		"data":    vehicles,
		"count":   len(vehicles),
	})
}

// getVehicle returns a single vehicle. Employees and admins may read any
// vehicle for service context; customers only their own.
func getVehicle(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Vehicle not found",
			"message": "Vehicle does not exist",
		})
		return
	}

	role := c.GetString("user_role")
	if role == string(models.RoleCustomer) && vehicle.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "You can only view your own vehicles",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle retrieved successfully",
		"data":    vehicle,
	})
}

// uploadVehicleImages uploads vehicle photos to Cloudinary. Accepts up to two
// exterior photos and one interior photo per vehicle.
func uploadVehicleImages(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid vehicle ID"})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
		return
	}

	exteriorFrontHeader, _ := c.FormFile("exterior_front")
	exteriorRearHeader, _ := c.FormFile("exterior_rear")
	interiorHeader, _ := c.FormFile("interior")

	if exteriorFrontHeader == nil && exteriorRearHeader == nil && interiorHeader == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No files provided"})
		return
	}

	if exteriorFrontHeader != nil && !validateImageFile(exteriorFrontHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid exterior front photo"})
		return
	}
	if exteriorRearHeader != nil && !validateImageFile(exteriorRearHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid exterior rear photo"})
		return
	}
	if interiorHeader != nil && !validateImageFile(interiorHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid interior photo"})
		return
	}

	// Only the owner may add images
	var vehicle models.Vehicle
	if err := database.DB.Where("id = ? AND customer_id = ?", id, userID).First(&vehicle).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Vehicle not found"})
		return
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cloudinary not configured"})
		return
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cloudinary initialization failed"})
		return
	}

	ctx := context.Background()
	data := gin.H{}

	// Upload helper
	upload := func(header *multipart.FileHeader, folder string) (string, error) {
		if header == nil {
			return "", nil
		}
		file, err := header.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		ow := true
		uf := true
		up, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:         folder,
			PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
			Overwrite:      &ow,
			UniqueFilename: &uf,
			ResourceType:   "image",
		})
		if err != nil {
			return "", err
		}
		return up.SecureURL, nil
	}

	base := "vehicles/" + strconv.Itoa(int(vehicle.ID))

	if exteriorFrontHeader != nil {
		if url, err := upload(exteriorFrontHeader, base+"/exterior"); err == nil {
			vehicle.ExteriorFrontURL = &url
			data["exterior_front_url"] = url
		} else {
			log.Printf("❌ Exterior front upload failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Exterior front upload failed"})
			return
		}
	}
	if exteriorRearHeader != nil {
		if url, err := upload(exteriorRearHeader, base+"/exterior"); err == nil {
			vehicle.ExteriorRearURL = &url
			data["exterior_rear_url"] = url
		} else {
			log.Printf("❌ Exterior rear upload failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Exterior rear upload failed"})
			return
		}
	}
	if interiorHeader != nil {
		if url, err := upload(interiorHeader, base+"/interior"); err == nil {
			vehicle.InteriorURL = &url
			data["interior_url"] = url
		} else {
			log.Printf("❌ Interior upload failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Interior upload failed"})
			return
		}
	}

	if err := database.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
