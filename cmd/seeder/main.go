package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/config"
	"github.com/micollege/elms/internal/database"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/logger"
	"github.com/micollege/elms/internal/repository"
	"github.com/micollege/elms/internal/service"
)

// seedUser mirrors one entry of the YAML fixture file.
type seedUser struct {
	Name          string `yaml:"name"`
	Email         string `yaml:"email"`
	Password      string `yaml:"password"`
	Role          string `yaml:"role"`
	Department    string `yaml:"department"`
	Designation   string `yaml:"designation"`
	Qualification string `yaml:"qualification"`
	MobileNo      string `yaml:"mobileNo"`
	DateOfBirth   string `yaml:"dateOfBirth"`
	DateOfJoining string `yaml:"dateOfJoining"`
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

func main() {
	path := flag.String("file", "seed.yaml", "path to the YAML seed fixture")
	flag.Parse()

	ctx := context.Background()

	if err := config.LoadEnvConfig(); err != nil {
		panic(err)
	}
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)

	raw, err := os.ReadFile(*path)
	if err != nil {
		logger.ErrorLog(ctx, "Failed to read seed file", err)
		os.Exit(1)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		logger.ErrorLog(ctx, "Failed to parse seed file", err)
		os.Exit(1)
	}

	store, err := database.NewDatastoreClient(ctx, config.DefaultEnvConfig.GCP_PROJECT_ID)
	if err != nil {
		logger.ErrorLog(ctx, "Failed to connect to record store", err)
		os.Exit(1)
	}
	defer store.Close()

	users := repository.NewUserRepository(store)

	created, skipped := 0, 0
	for _, su := range seed.Users {
		if _, err := users.GetByEmail(ctx, su.Email); err == nil {
			logger.InfoLog(ctx, "skipping existing user %s", su.Email)
			skipped++
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.ErrorLog(ctx, "Failed to look up user", err)
			os.Exit(1)
		}

		role, ok := domain.ParseRole(su.Role)
		if !ok {
			logger.WarnLog(ctx, "skipping %s: invalid role %q", su.Email, su.Role)
			continue
		}
		dob, err := service.ParseISODate(su.DateOfBirth)
		if err != nil {
			logger.WarnLog(ctx, "skipping %s: %v", su.Email, err)
			continue
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			logger.ErrorLog(ctx, "Failed to hash password", err)
			os.Exit(1)
		}

		user := &domain.User{
			Name:          su.Name,
			Email:         su.Email,
			PasswordHash:  hash,
			Role:          role,
			Department:    su.Department,
			Designation:   su.Designation,
			Qualification: su.Qualification,
			MobileNo:      service.NormalizeMobile(su.MobileNo),
			DateOfBirth:   dob,
			IsActive:      true,
			LeaveBalance:  domain.DefaultLeaveBalance(),
		}
		if su.DateOfJoining != "" {
			user.DateOfJoining, _ = service.ParseISODate(su.DateOfJoining)
		}

		if err := users.Create(ctx, user); err != nil {
			logger.ErrorLog(ctx, "Failed to create user", err)
			os.Exit(1)
		}
		logger.InfoLog(ctx, "created user %s (%s)", user.Email, user.Role)
		created++
	}

	logger.InfoLog(ctx, "seeding complete: %d created, %d skipped", created, skipped)
}
