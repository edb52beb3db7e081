package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"excursia/internal/appconfig"
	"excursia/internal/config"
	"excursia/internal/database"
	"excursia/internal/domain"
	"excursia/internal/repository"
)

// Seeds the default app configuration and a demo partner with one excursion,
// a session a few days out and a meeting point, so the API is exercisable
// right after first start.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	appcfgRepo := repository.NewAppConfigRepository(db)
	userRepo := repository.NewUserRepository(db)
	excursionRepo := repository.NewExcursionRepository(db)

	defaults := appconfig.DefaultSnapshot()
	if err := appcfgRepo.Set(ctx, appconfig.KeyTimeMinBooking, defaults.BookingDays); err != nil {
		log.Fatal(err)
	}
	if err := appcfgRepo.Set(ctx, appconfig.KeyPercentagePenalty, defaults.PenaltyPercent); err != nil {
		log.Fatal(err)
	}
	if err := appcfgRepo.Set(ctx, appconfig.KeyExpiredTime, defaults.ExpiredDays); err != nil {
		log.Fatal(err)
	}
	log.Println("app config seeded")

	partner := seedUser(ctx, userRepo, "partner@excursia.dev", "partner-pass", "Pavel", domain.RolePartner, nil)
	seedUser(ctx, userRepo, "employee@excursia.dev", "employee-pass", "Egor", domain.RoleEmployee, &partner.ID)
	seedUser(ctx, userRepo, "buyer@excursia.dev", "buyer-pass", "Boris", domain.RoleBuyer, nil)

	exc := &domain.Excursion{
		UserID:        partner.ID,
		Name:          "Rivers and Canals",
		Type:          domain.TypeExc,
		Subtype:       domain.SubtypeGroup,
		PriceAdult:    2000,
		PriceChildren: 500,
		Status:        domain.ExcursionActive,
		Props: domain.ExcursionProps{
			Duration:  domain.ExcursionDuration{Hour: 2},
			Languages: []string{"ru", "en"},
			Location:  "Saint Petersburg",
		},
	}
	if err := excursionRepo.Create(ctx, exc); err != nil {
		log.Fatal(err)
	}

	session := time.Now().AddDate(0, 0, 5)
	etime := &domain.ExcursionTime{
		ExcursionID: exc.ID,
		Date:        session.Format("2006-01-02"),
		Start:       "15:00",
	}
	if err := excursionRepo.CreateTime(ctx, etime); err != nil {
		log.Fatal(err)
	}

	point := &domain.ExcursionTimePoint{
		ExcursionID:     exc.ID,
		ExcursionTimeID: etime.ID,
		Address:         "Anichkov Bridge",
		Lat:             59.9332,
		Lng:             30.3441,
	}
	if err := excursionRepo.CreatePoint(ctx, point); err != nil {
		log.Fatal(err)
	}

	log.Printf("demo excursion seeded: excursion_id=%d time_id=%d point_id=%d", exc.ID, etime.ID, point.ID)
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password, name string, role domain.UserRole, employerID *int64) *domain.User {
	if existing, err := users.GetByEmail(ctx, email); err == nil {
		return existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		EmployerID:   employerID,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal(err)
	}
	log.Printf("user seeded: %s (%s)", email, role)
	return u
}
