package main

import (
	"log"
	"os"

	"ai-agent-gateway-be/internal/model"
	"ai-agent-gateway-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo tenants...")

	tenants := []model.Tenant{
		{
			ID:                 "acme-dental",
			Name:               "Acme Dental",
			Tone:               "friendly",
			Locale:             "en",
			CustomInstructions: "Help patients with scheduling and general clinic questions. Never give medical advice.",
			Disclaimers:        datatypes.JSONSlice[string]{"This assistant does not provide medical advice."},
			EnabledTools:       datatypes.JSONSlice[string]{"schedule_visit", "get_business_hours", "search_documents"},
			ForbiddenClaims:    datatypes.JSONSlice[string]{"guaranteed cure", "painless procedure"},
		},
		{
			ID:                  "globex-store",
			Name:                "Globex Store",
			Tone:                "professional",
			Locale:              "en",
			CustomInstructions:  "Answer questions about orders, shipping, and returns.",
			EnabledTools:        datatypes.JSONSlice[string]{"get_business_hours", "send_email", "create_payment_link"},
			RateLimitQuota:      120,
			RateLimitWindowSecs: 60,
		},
	}

	for _, t := range tenants {
		var existing model.Tenant
		if err := db.Where("id = ?", t.ID).First(&existing).Error; err == nil {
			log.Printf("Tenant '%s' already exists, skipping...", t.ID)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			log.Printf("Error creating tenant '%s': %v", t.ID, err)
		} else {
			log.Printf("Created tenant: %s (%s)", t.Name, t.ID)
		}
	}

	log.Println("Seeding demo documents...")

	documents := []model.Document{
		{
			ID:       uuid.New(),
			TenantID: "acme-dental",
			Title:    "Insurance and Billing",
			Content:  "We accept most major dental insurance plans. Payment plans are available for treatments over $500. Please bring your insurance card to your first visit.",
		},
		{
			ID:       uuid.New(),
			TenantID: "acme-dental",
			Title:    "First Visit Checklist",
			Content:  "New patients should arrive 15 minutes early, bring a photo ID, their insurance card, and a list of current medications.",
		},
		{
			ID:       uuid.New(),
			TenantID: "globex-store",
			Title:    "Return Policy",
			Content:  "Items can be returned within 30 days of delivery in original packaging. Refunds are issued to the original payment method within 5 business days.",
		},
	}

	for _, d := range documents {
		var existing model.Document
		if err := db.Where("tenant_id = ? AND title = ?", d.TenantID, d.Title).First(&existing).Error; err == nil {
			log.Printf("Document '%s' already exists, skipping...", d.Title)
			continue
		}

		if err := db.Create(&d).Error; err != nil {
			log.Printf("Error creating document '%s': %v", d.Title, err)
		} else {
			log.Printf("Created document: %s (%s)", d.Title, d.TenantID)
		}
	}

	log.Println("✅ Seeding completed!")
}
