package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/config"
	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	appLogger "github.com/MaratulyTemirbolat/roommate-back/internal/logger"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
	"github.com/MaratulyTemirbolat/roommate-back/internal/repository"
	"github.com/MaratulyTemirbolat/roommate-back/internal/service"
	"github.com/MaratulyTemirbolat/roommate-back/migrations"
	"github.com/MaratulyTemirbolat/roommate-back/pkg/migration"
)

var citiesWithDistricts = map[string][]string{
	"Almaty":   {"Alatau", "Almaly", "Auezov", "Bostandyk", "Medeu", "Nauryzbay", "Turksib", "Zhetysu"},
	"Astana":   {"Almaty", "Baikonur", "Esil", "Saryarka"},
	"Shymkent": {"Abay", "Al-Farabi", "Enbekshi", "Karatau"},
}

var categoriesWithSubs = map[string][]string{
	"Sport":  {"Football", "Basketball", "Swimming", "Gym", "Chess"},
	"Music":  {"Guitar", "Piano", "Singing"},
	"Games":  {"Board games", "Video games"},
	"Travel": {"Hiking", "Camping"},
}

var firstNames = []string{
	"Temirbolat", "Aisulu", "Dana", "Arman", "Aigerim", "Nurlan",
	"Madina", "Alibek", "Zarina", "Daniyar", "Kamila", "Yerlan",
}

func main() {
	userCount := flag.Int("users", 50, "number of fake users to create")
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := appLogger.New(appLogger.Config{Level: cfg.LogLevel, Encoding: "console"})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, pool)
	if err := migrator.Up(ctx); err != nil {
		logger.Fatal("Failed to apply database migrations", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool, logger)
	locationRepo := repository.NewPgLocationRepository(pool, logger)
	hobbyRepo := repository.NewPgHobbyRepository(pool, logger)
	// Register не трогает хранилище токенов, Redis для сидинга не нужен
	authSvc := service.NewAuthService(userRepo, nil, cfg, logger)

	districtIDs := seedLocations(ctx, locationRepo, logger)
	logger.Info("Reference locations seeded", zap.Int("districts", len(districtIDs)))

	subCategoryIDs := seedHobbies(ctx, hobbyRepo, logger)
	logger.Info("Reference hobbies seeded", zap.Int("subcategories", len(subCategoryIDs)))

	created := 0
	for i := 0; i < *userCount; i++ {
		input := randomUser(i, districtIDs, subCategoryIDs)
		if _, err := authSvc.Register(ctx, input); err != nil {
			logger.Warn("Failed to create fake user", zap.String("email", input.Email), zap.Error(err))
			continue
		}
		created++
	}

	logger.Info("Seeding finished", zap.Int("usersCreated", created), zap.Int("usersRequested", *userCount))
}

func seedLocations(ctx context.Context, repo interfaces.LocationRepository, logger *zap.Logger) []int64 {
	districtIDs := make([]int64, 0)
	for cityName, districts := range citiesWithDistricts {
		city := &models.City{Name: cityName}
		if err := repo.CreateCity(ctx, city); err != nil {
			logger.Warn("Skipping city (possibly already seeded)", zap.String("city", cityName), zap.Error(err))
			continue
		}
		for _, districtName := range districts {
			district := &models.District{Name: districtName, CityID: city.ID}
			if err := repo.CreateDistrict(ctx, district); err != nil {
				logger.Warn("Skipping district", zap.String("district", districtName), zap.Error(err))
				continue
			}
			districtIDs = append(districtIDs, district.ID)
		}
	}
	return districtIDs
}

func seedHobbies(ctx context.Context, repo interfaces.HobbyRepository, logger *zap.Logger) []int64 {
	subCategoryIDs := make([]int64, 0)
	for categoryName, subs := range categoriesWithSubs {
		category := &models.Category{Name: categoryName}
		if err := repo.CreateCategory(ctx, category); err != nil {
			logger.Warn("Skipping category (possibly already seeded)", zap.String("category", categoryName), zap.Error(err))
			continue
		}
		for _, subName := range subs {
			sub := &models.SubCategory{Name: subName, CategoryID: category.ID}
			if err := repo.CreateSubCategory(ctx, sub); err != nil {
				logger.Warn("Skipping subcategory", zap.String("subcategory", subName), zap.Error(err))
				continue
			}
			subCategoryIDs = append(subCategoryIDs, sub.ID)
		}
	}
	return subCategoryIDs
}

func randomUser(index int, districtIDs, subCategoryIDs []int64) *service.RegisterInput {
	gender := models.GenderMale
	if rand.Intn(2) == 0 {
		gender = models.GenderFemale
	}

	name := firstNames[rand.Intn(len(firstNames))]
	comment := fmt.Sprintf("Hi, I am %s and I am looking for a roommate", name)

	return &service.RegisterInput{
		Email:          fmt.Sprintf("%s.%d@example.com", name, index),
		Phone:          fmt.Sprintf("+7%03d%03d%04d", rand.Intn(1000), rand.Intn(1000), rand.Intn(10000)),
		FirstName:      name,
		Password:       "seeded-password",
		Gender:         gender,
		MonthBudget:    int64(40000 + rand.Intn(17)*10000),
		Comment:        &comment,
		DistrictIDs:    pickRandom(districtIDs, 1+rand.Intn(3)),
		SubCategoryIDs: pickRandom(subCategoryIDs, rand.Intn(4)),
	}
}

func pickRandom(ids []int64, n int) []int64 {
	if len(ids) == 0 || n == 0 {
		return nil
	}
	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
