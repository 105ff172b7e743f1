package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"database"`
}

type User struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
}

type Property struct {
	OwnerEmail         string `yaml:"owner_email"`
	Title              string `yaml:"title"`
	BedCount           int32  `yaml:"bed_count"`
	PricePerNightCents int64  `yaml:"price_per_night_cents"`
}

type SetupData struct {
	ConfigFile string     `yaml:"config_file"`
	Users      []User     `yaml:"users"`
	Properties []Property `yaml:"properties"`
}

func main() {
	setupFile := "tests/data-setup/seed.yaml"
	if _, err := os.Stat(setupFile); os.IsNotExist(err) {
		setupFile = "seed.yaml"
	}

	setupData, err := readSetupFile(setupFile)
	if err != nil {
		log.Fatalf("Failed to read setup file: %v", err)
	}

	configPath := resolveConfigPath(setupData.ConfigFile)
	config, err := readConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	db, err := connectDB(config)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := populateData(db, setupData); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}

	log.Println("✅ Test data successfully populated!")
}

func readSetupFile(filename string) (*SetupData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var setupData SetupData
	if err := yaml.Unmarshal(data, &setupData); err != nil {
		return nil, err
	}

	return &setupData, nil
}

func resolveConfigPath(configPath string) string {
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	projectRoot := findProjectRoot()
	fullPath := filepath.Join(projectRoot, configPath)
	if _, err := os.Stat(fullPath); err == nil {
		return fullPath
	}

	// Return the original path and let it fail with a clear error
	return configPath
}

func findProjectRoot() string {
	// Look for go.mod to identify the project root
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}

func readConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func connectDB(config *Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Database.Host,
		config.Database.Port,
		config.Database.User,
		config.Database.Password,
		config.Database.Database,
		config.Database.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✓ Connected to database: %s@%s:%d/%s",
		config.Database.User,
		config.Database.Host,
		config.Database.Port,
		config.Database.Database)

	return db, nil
}

func populateData(db *sql.DB, data *SetupData) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userIDs := make(map[string]int32)

	for i, user := range data.Users {
		log.Printf("Creating user %d/%d: %s (%s)", i+1, len(data.Users), user.Name, user.Email)

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", user.Email, err)
		}

		var userID int32
		err = tx.QueryRow(`
			INSERT INTO users (email, password_hash, name, role, created_on)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			user.Email,
			string(passwordHash),
			user.Name,
			user.Role,
			time.Now(),
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Email, err)
		}
		userIDs[user.Email] = userID

		log.Printf("  ✓ User created with ID: %d, Role: %s", userID, user.Role)
	}

	for i, prop := range data.Properties {
		ownerID, ok := userIDs[prop.OwnerEmail]
		if !ok {
			return fmt.Errorf("property %q references unknown owner %s", prop.Title, prop.OwnerEmail)
		}

		log.Printf("Creating property %d/%d: %s", i+1, len(data.Properties), prop.Title)

		var propertyID int32
		err = tx.QueryRow(`
			INSERT INTO properties (owner_id, title, bed_count, price_per_night_cents, status, created_on, updated_on)
			VALUES ($1, $2, $3, $4, 'APPROVED', $5, $5)
			RETURNING id
		`,
			ownerID,
			prop.Title,
			prop.BedCount,
			prop.PricePerNightCents,
			time.Now(),
		).Scan(&propertyID)
		if err != nil {
			return fmt.Errorf("failed to create property %s: %w", prop.Title, err)
		}

		for n := int32(1); n <= prop.BedCount; n++ {
			_, err = tx.Exec(`
				INSERT INTO seats (property_id, label, status, created_on, updated_on)
				VALUES ($1, $2, 'AVAILABLE', $3, $3)
			`, propertyID, fmt.Sprintf("Bed %d", n), time.Now())
			if err != nil {
				return fmt.Errorf("failed to create seats for %s: %w", prop.Title, err)
			}
		}

		log.Printf("  ✓ Property created with ID: %d (%d beds)", propertyID, prop.BedCount)
	}

	return tx.Commit()
}
