package main

import (
	"encoding/json"
	"log"
	"os"

	"iot-support-be/internal/model"
	"iot-support-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type expertSeed struct {
	Name        string
	Title       string
	Email       string
	Phone       string
	Specialties []string
	IsGeneral   bool
}

type productSeed struct {
	Name        string
	Slug        string
	Description string
	CorpusId    string
	Keywords    []string
	ExpertEmail string
}

var experts = []expertSeed{
	{Name: "John Smith", Email: "john.smith@company.com", Phone: "+1-555-0101"},
	{Name: "Sarah Johnson", Email: "sarah.johnson@company.com", Phone: "+1-555-0102"},
	{Name: "Mike Chen", Email: "mike.chen@company.com", Phone: "+1-555-0103"},
	{Name: "Lisa Wang", Email: "lisa.wang@company.com", Phone: "+1-555-0104"},
	{
		Name:        "Dr. Emily Rodriguez",
		Title:       "Senior IOT Technical Lead",
		Email:       "emily.rodriguez@company.com",
		Phone:       "+1-555-0201",
		Specialties: []string{"All IOT Products", "System Integration", "Technical Architecture"},
		IsGeneral:   true,
	},
	{
		Name:        "Alex Thompson",
		Title:       "IOT Customer Success Manager",
		Email:       "alex.thompson@company.com",
		Phone:       "+1-555-0202",
		Specialties: []string{"Customer Support", "Product Training", "Troubleshooting"},
		IsGeneral:   true,
	},
}

var products = []productSeed{
	{
		Name:        "Smart Home Hub",
		Slug:        "smart-home-hub",
		Description: "Central control unit for smart home devices",
		CorpusId:    "corpus-smart-home-hub",
		Keywords: []string{
			"hub", "central", "control", "smart home", "automation", "central unit",
			"main controller", "home automation", "smart hub", "control center",
		},
		ExpertEmail: "john.smith@company.com",
	},
	{
		Name:        "Security Camera System",
		Slug:        "security-camera-system",
		Description: "Wireless security camera with AI detection",
		CorpusId:    "corpus-security-camera",
		Keywords: []string{
			"camera", "security", "surveillance", "monitoring", "recording", "video",
			"cctv", "security camera", "surveillance system", "motion detection",
			"night vision", "footage", "monitor",
		},
		ExpertEmail: "sarah.johnson@company.com",
	},
	{
		Name:        "Smart Thermostat",
		Slug:        "smart-thermostat",
		Description: "AI-powered temperature control system",
		CorpusId:    "corpus-smart-thermostat",
		Keywords: []string{
			"thermostat", "temperature", "heating", "cooling", "climate", "hvac",
			"smart thermostat", "temperature control", "heating system", "cooling system",
			"climate control", "energy saving", "temperature sensor",
		},
		ExpertEmail: "mike.chen@company.com",
	},
	{
		Name:        "Smart Lighting System",
		Slug:        "smart-lighting-system",
		Description: "Automated lighting control with voice commands",
		CorpusId:    "corpus-smart-lighting",
		Keywords: []string{
			"lighting", "lights", "bulb", "lamp", "illumination", "smart lights",
			"smart lighting", "light control", "dimmer", "color", "brightness",
			"automated lighting", "voice control", "light bulb",
		},
		ExpertEmail: "lisa.wang@company.com",
	},
}

func main() {
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

	color.Cyan("Seeding Expert Contacts...")
	expertIds := seedExperts(db)

	color.Cyan("Seeding Product Catalog...")
	seedProducts(db, expertIds)

	color.Green("✅ Seeding completed!")
}

func seedExperts(db *gorm.DB) map[string]model.ExpertContact {
	byEmail := make(map[string]model.ExpertContact)

	for _, e := range experts {
		var existing model.ExpertContact
		if err := db.Where("email = ?", e.Email).First(&existing).Error; err == nil {
			color.Yellow("Expert '%s' already exists, skipping...", e.Name)
			byEmail[e.Email] = existing
			continue
		}

		specialties, _ := json.Marshal(e.Specialties)
		row := model.ExpertContact{
			Name:        e.Name,
			Title:       e.Title,
			Email:       e.Email,
			Phone:       e.Phone,
			Specialties: specialties,
			IsGeneral:   e.IsGeneral,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("Error creating expert '%s': %v", e.Name, err)
		}
		color.Green("Created expert: %s <%s>", e.Name, e.Email)
		byEmail[e.Email] = row
	}

	return byEmail
}

func seedProducts(db *gorm.DB, expertsByEmail map[string]model.ExpertContact) {
	for i, p := range products {
		var existing model.Product
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			color.Yellow("Product '%s' already exists, skipping...", p.Name)
			continue
		}

		expert, ok := expertsByEmail[p.ExpertEmail]
		if !ok {
			log.Fatalf("Error: no expert seeded for email %s", p.ExpertEmail)
		}

		keywords, _ := json.Marshal(p.Keywords)
		row := model.Product{
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			CorpusId:    p.CorpusId,
			Keywords:    keywords,
			ExpertId:    expert.Id,
			Position:    i + 1,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("Error creating product '%s': %v", p.Name, err)
		}
		color.Green("Created product: %s (corpus %s)", p.Name, p.CorpusId)
	}
}
