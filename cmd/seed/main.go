// Command seed loads the default subject catalog, a starter set of rooms and an
// administrator account. Existing rows are left untouched, so it is safe to rerun.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/logger"
	"github.com/noah-isme/sis-api/pkg/validation"
)

func main() {
	adminUser := flag.String("admin-username", "admin", "username of the seeded administrator")
	adminPassword := flag.String("admin-password", "", "password of the seeded administrator; skipped when empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.Migrate(db.DB, logr); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	ctx := context.Background()
	validate := validation.New()
	userRepo := repository.NewUserRepository(db)

	subjects := service.NewSubjectService(repository.NewSubjectRepository(db), userRepo, db, validate, logr)
	created, err := subjects.SeedCatalog(ctx, subjectCatalog())
	if err != nil {
		logr.Fatal("subject seeding failed", zap.Error(err))
	}
	logr.Info("subjects seeded", zap.Int("created", created))

	rooms := service.NewRoomService(repository.NewRoomRepository(db), repository.NewScheduleRepository(db), validate, logr)
	for _, room := range defaultRooms {
		if _, err := rooms.Create(ctx, room); err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
				continue
			}
			logr.Fatal("room seeding failed", zap.String("room", room.Name), zap.Error(err))
		}
	}

	if *adminPassword != "" {
		users := service.NewUserService(userRepo, validate, logr)
		_, err := users.Create(ctx, service.CreateUserRequest{
			Username: *adminUser,
			FullName: "Administrator",
			Role:     models.RoleAdmin,
			Password: *adminPassword,
			Approved: true,
		})
		switch {
		case err == nil:
			logr.Info("administrator created", zap.String("username", *adminUser))
		case appErrors.FromError(err).Code == appErrors.ErrConflict.Code:
			logr.Info("administrator already exists", zap.String("username", *adminUser))
		default:
			logr.Fatal("administrator seeding failed", zap.Error(err))
		}
	}

	logr.Info("database seeded")
}
