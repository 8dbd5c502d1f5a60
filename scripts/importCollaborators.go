package main

import (
	"encoding/csv"
	"log"
	"os"
	"ssoma/config"
	"ssoma/database"
	"ssoma/models"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Bulk-imports collaborators from Collaborators.csv. Expected headers:
// first_name,last_name,document_number,email,position,area,hire_date
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	// Open CSV file
	file, err := os.Open("Collaborators.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(strings.ToLower(h))] = i
	}

	for _, required := range []string{"first_name", "last_name", "document_number", "email"} {
		if _, ok := headerIndex[required]; !ok {
			log.Fatalf("Missing required CSV column: %s", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := headerIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	inserted := 0
	updated := 0
	skipped := 0

	db := database.Database.Db

	for i, row := range records[1:] {
		if i%100 == 0 && i > 0 {
			log.Printf("Processing row %d...", i+1)
		}

		documentNumber := field(row, "document_number")
		email := field(row, "email")
		if documentNumber == "" || email == "" {
			skipped++
			continue
		}

		firstName := field(row, "first_name")
		lastName := field(row, "last_name")

		// Find or create the backing user account
		var user models.User
		err := db.Where("email = ?", email).First(&user).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Printf("Row %d: user lookup failed: %v", i+1, err)
				skipped++
				continue
			}

			// New accounts get the document number as the initial password
			hashed, hashErr := bcrypt.GenerateFromPassword([]byte(documentNumber), config.AppConfig.SaltRound)
			if hashErr != nil {
				log.Printf("Row %d: failed to hash password: %v", i+1, hashErr)
				skipped++
				continue
			}

			user = models.User{
				Name:     strings.TrimSpace(firstName + " " + lastName),
				Email:    email,
				Password: string(hashed),
			}
			if err := db.Create(&user).Error; err != nil {
				log.Printf("Row %d: failed to create user: %v", i+1, err)
				skipped++
				continue
			}
		}

		var hireDate *time.Time
		if raw := field(row, "hire_date"); raw != "" {
			if parsed, parseErr := time.Parse("2006-01-02", raw); parseErr == nil {
				hireDate = &parsed
			} else {
				log.Printf("Row %d: invalid hire_date %q, ignoring", i+1, raw)
			}
		}

		var collaborator models.Collaborator
		err = db.Where("document_number = ?", documentNumber).First(&collaborator).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Printf("Row %d: collaborator lookup failed: %v", i+1, err)
				skipped++
				continue
			}

			collaborator = models.Collaborator{
				UserID:         user.ID,
				FirstName:      firstName,
				LastName:       lastName,
				DocumentNumber: documentNumber,
				Position:       field(row, "position"),
				Area:           field(row, "area"),
				HireDate:       hireDate,
			}
			if err := db.Create(&collaborator).Error; err != nil {
				log.Printf("Row %d: failed to create collaborator: %v", i+1, err)
				skipped++
				continue
			}
			inserted++
			continue
		}

		collaborator.FirstName = firstName
		collaborator.LastName = lastName
		collaborator.Position = field(row, "position")
		collaborator.Area = field(row, "area")
		if hireDate != nil {
			collaborator.HireDate = hireDate
		}
		if err := db.Save(&collaborator).Error; err != nil {
			log.Printf("Row %d: failed to update collaborator: %v", i+1, err)
			skipped++
			continue
		}
		updated++
	}

	log.Printf("Import complete: %d inserted, %d updated, %d skipped", inserted, updated, skipped)
}
