// Command createadmin interactively bootstraps a firm administrator
// account, for deployments where no admin exists yet.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/taxdesk/backend/database"
	"github.com/taxdesk/backend/models"
	"golang.org/x/crypto/bcrypt"
)

func prompt(reader *bufio.Reader, question string) string {
	fmt.Print(question)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("❌ Failed to read input: %v", err)
	}
	return strings.TrimSpace(line)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	reader := bufio.NewReader(os.Stdin)
	firstName := prompt(reader, "Enter admin first name: ")
	lastName := prompt(reader, "Enter admin last name: ")
	email := prompt(reader, "Enter admin email: ")
	company := prompt(reader, "Enter admin company: ")
	password := prompt(reader, "Enter admin password: ")

	if firstName == "" || lastName == "" || email == "" || company == "" || password == "" {
		log.Println("All fields are required. Exiting.")
		os.Exit(1)
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("An account with this email already exists. Exiting.")
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	admin := models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Company:      company,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatalf("❌ Failed to create admin: %v", err)
	}

	fmt.Printf("Admin created successfully! ID: %d\n", admin.ID)
}
