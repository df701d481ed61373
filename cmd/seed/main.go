package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// CatalogService represents one seedable catalog entry
type CatalogService struct {
	Name        string
	Description string
	BasePrice   float64
	Duration    string
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Database connection parameters
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "")
	dbName := getEnv("DB_NAME", "wheelsdoc_db")
	dbSSLMode := getEnv("DB_SSL_MODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("✅ Successfully connected to database")

	// Check if services already exist
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM services").Scan(&count)
	if err != nil {
		log.Fatal("Failed to check services count:", err)
	}

	if count > 0 {
		log.Printf("⚠️  Services already exist (%d services found). Skipping insertion.", count)
		return
	}

	services := []CatalogService{
		{
			Name:        "Oil Change",
			Description: "Full synthetic oil change with filter replacement and fluid top-off.",
			BasePrice:   49.99,
			Duration:    "30-45 minutes",
		},
		{
			Name:        "Tire Rotation",
			Description: "Rotate all four tires, check tread depth and adjust pressure.",
			BasePrice:   29.99,
			Duration:    "30 minutes",
		},
		{
			Name:        "Brake Inspection",
			Description: "Inspect pads, rotors and brake fluid, with a written condition report.",
			BasePrice:   39.99,
			Duration:    "45 minutes",
		},
		{
			Name:        "Brake Pad Replacement",
			Description: "Replace front or rear brake pads, resurface rotors when needed.",
			BasePrice:   189.99,
			Duration:    "1-2 hours",
		},
		{
			Name:        "Wheel Alignment",
			Description: "Four-wheel computerized alignment to factory specifications.",
			BasePrice:   99.99,
			Duration:    "1 hour",
		},
		{
			Name:        "Battery Replacement",
			Description: "Battery test, replacement and charging-system check.",
			BasePrice:   149.99,
			Duration:    "30 minutes",
		},
		{
			Name:        "Engine Diagnostic",
			Description: "Full OBD-II scan with a technician's diagnosis and repair estimate.",
			BasePrice:   89.99,
			Duration:    "1 hour",
		},
		{
			Name:        "A/C Service",
			Description: "Air conditioning inspection, leak test and refrigerant recharge.",
			BasePrice:   129.99,
			Duration:    "1-2 hours",
		},
		{
			Name:        "Transmission Service",
			Description: "Transmission fluid exchange and filter replacement.",
			BasePrice:   179.99,
			Duration:    "1-2 hours",
		},
		{
			Name:        "Full Detail",
			Description: "Interior and exterior detail, wax, and engine bay cleaning.",
			BasePrice:   199.99,
			Duration:    "3-4 hours",
		},
	}

	log.Println("🚀 Starting to insert services...")

	insertQuery := `
		INSERT INTO services (
			name, description, base_price, duration, is_active,
			created_at, updated_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	insertedCount := 0

	for _, service := range services {
		_, err := db.Exec(insertQuery,
			service.Name,
			service.Description,
			service.BasePrice,
			service.Duration,
			true,
			now,
			now,
			nil,
		)

		if err != nil {
			log.Printf("❌ Failed to insert service '%s': %v", service.Name, err)
		} else {
			log.Printf("✅ Successfully inserted: %s", service.Name)
			insertedCount++
		}
	}

	log.Printf("🎉 Insertion completed! %d out of %d services inserted successfully", insertedCount, len(services))

	// Verify the insertion
	rows, err := db.Query("SELECT id, name, base_price, duration, is_active FROM services ORDER BY id")
	if err != nil {
		log.Fatal("Failed to query services:", err)
	}
	defer rows.Close()

	log.Println("📋 Inserted Services:")

	for rows.Next() {
		var id int
		var name, duration string
		var basePrice float64
		var isActive bool

		if err := rows.Scan(&id, &name, &basePrice, &duration, &isActive); err != nil {
			log.Printf("Failed to scan row: %v", err)
			continue
		}

		log.Printf("%d | %s | %.2f | %s | %t", id, name, basePrice, duration, isActive)
	}

	if err = rows.Err(); err != nil {
		log.Fatal("Error iterating over rows:", err)
	}

	log.Println("✨ Service seeding completed successfully!")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
