// scripts/create_admin.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/config"
	"github.com/jorsalda/gestion-permisos-colegios/database"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

// Seeds the administrator account. Admin rights come from the role column,
// not from any particular email address.
func main() {
	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close(db)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var existing models.Account
	if err := db.Where("email = ?", email).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("failed to query accounts: %v", err)
		}
	} else {
		fmt.Println("admin account already exists:", email)
		os.Exit(0)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// the admin needs a school row like everyone else
	var school models.School
	if err := db.Where("name = ?", "Administración").First(&school).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("failed to query schools: %v", err)
		}
		school = models.School{Name: "Administración"}
		if err := db.Create(&school).Error; err != nil {
			log.Fatalf("failed to create school: %v", err)
		}
	}

	acc := models.Account{
		Email:               email,
		PasswordHash:        string(hashed),
		SchoolID:            school.ID,
		Role:                models.RoleAdmin,
		Status:              models.StatusActive,
		RegisteredAt:        time.Now().UTC(),
		PermanentlyApproved: true,
	}
	if err := db.Create(&acc).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("admin account created:", email)
}
