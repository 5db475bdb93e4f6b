package main

import (
	"flag"

	"go-warung-pos/internal/config"
	"go-warung-pos/internal/logger"
	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}

	email := flag.String("email", cfg.OwnerEmail, "account to reset")
	password := flag.String("password", cfg.OwnerPassword, "new password")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal().Msg("password must be at least 6 characters")
	}

	// 2. Setup Database
	db, err := database.Connect(database.Options{Driver: cfg.DBDriver, DSN: cfg.DSN()})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(*email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	// 5. Update, and drop any open session
	if err := users.UpdatePassword(user.ID, user.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}
	if err := db.Model(&model.User{}).Where("id = ?", user.ID).Update("token_version", uuid.NewString()).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to revoke sessions")
	}

	log.Info().Str("email", *email).Msg("password reset")
}
