package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recruitflow/cv-extractor/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto migrate
	if err := db.AutoMigrate(
		&models.Company{},
		&models.Job{},
		&models.JobTag{},
		&models.Attachment{},
		&models.Applicant{},
		&models.Degree{},
		&models.SkillType{},
		&models.SkillLevel{},
		&models.Skill{},
		&models.ApplicantSkill{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("✅ Database migration completed")

	return db, nil
}

// SeedDefaultCompany creates the default company from env settings when the
// table is empty, so a fresh install has working extraction settings.
func SeedDefaultCompany(db *gorm.DB, cfg *Config) (*models.Company, error) {
	var company models.Company
	err := db.Order("created_at ASC").First(&company).Error
	if err == nil {
		return &company, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up default company: %w", err)
	}

	company = models.Company{
		Name:          "Default Company",
		GeminiAPIKey:  cfg.Gemini.APIKey,
		GeminiModel:   cfg.Gemini.Model,
		CVExtractMode: models.CVExtractMode(cfg.Gemini.ExtractMode),
	}
	if err := db.Create(&company).Error; err != nil {
		return nil, fmt.Errorf("failed to seed default company: %w", err)
	}

	log.Printf("✅ Seeded default company '%s'", company.Name)
	return &company, nil
}
