package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"studyhall/internal/database"
	"studyhall/internal/domain"
	"studyhall/internal/layout"
	"studyhall/internal/repository"
)

func main() {
	db, err := database.Connect("studyhall.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Hall{},
		&domain.HallRow{},
		&domain.Cabin{},
		&domain.Booking{},
		&domain.GatewayPayment{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM gateway_payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM cabins")
	db.Exec("DELETE FROM hall_rows")
	db.Exec("DELETE FROM halls")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	halls := repository.NewHallRepository(db)
	cabins := repository.NewCabinRepository(db)
	bookings := repository.NewBookingRepository(db)

	log.Println("Creating users...")

	admin := seedUser(ctx, users, "admin@studyhall.local", "admin123", domain.RoleAdmin, "Admin")
	merchant := seedUser(ctx, users, "merchant@studyhall.local", "merchant123", domain.RoleMerchant, "Hall Owner")
	student := seedUser(ctx, users, "student@studyhall.local", "student123", domain.RoleStudent, "Student")
	seedUser(ctx, users, "settlement@studyhall.local", "settle123", domain.RoleSettlement, "Settlement Manager")
	_ = admin

	log.Println("Creating hall with layout...")

	hall := &domain.Hall{
		OwnerID:     merchant.ID,
		Name:        "Central Study Hall",
		Description: "Quiet cabins near the university",
		Address:     "12 Library Lane",
		City:        "Almaty",
		BasePrice:   25000,
		BaseDeposit: 5000,
		Amenities:   []string{"wifi", "ac", "locker"},
		Status:      domain.HallApproved,
	}
	if err := halls.Create(ctx, hall); err != nil {
		log.Fatal(err)
	}

	deposit := 0.0
	rows := []layout.RowConfig{
		{Name: "A", CabinCount: 5},
		{Name: "B", CabinCount: 4, PriceOverride: ptr(30000.0)},
		{Name: "C", CabinCount: 3, DepositOverride: &deposit},
	}

	hallRows := make([]domain.HallRow, 0, len(rows))
	for _, r := range rows {
		hallRows = append(hallRows, domain.HallRow{
			Name:            r.Name,
			CabinCount:      r.CabinCount,
			PriceOverride:   r.PriceOverride,
			DepositOverride: r.DepositOverride,
		})
	}
	if err := halls.ReplaceRows(ctx, hall.ID, hallRows); err != nil {
		log.Fatal(err)
	}

	data := layout.Generate(rows, hall.BasePrice, hall.BaseDeposit, nil)
	cabinRecords := make([]domain.Cabin, 0, len(data.Cabins))
	for _, c := range data.Cabins {
		cabinRecords = append(cabinRecords, domain.Cabin{
			PositionID:        c.ID,
			Name:              c.Name,
			MonthlyPrice:      c.MonthlyPrice,
			RefundableDeposit: c.RefundableDeposit,
			Status:            domain.CabinAvailable,
		})
	}
	saved, failed, err := cabins.UpsertByPosition(ctx, hall.ID, cabinRecords)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Cabins saved=%d failed=%d", saved, len(failed))

	log.Println("Creating a paid booking...")

	first, err := cabins.GetByPosition(ctx, hall.ID, layout.CabinID(0, 0))
	if err != nil {
		log.Fatal(err)
	}

	b := &domain.Booking{
		Reference:     "seed-booking-1",
		HallID:        hall.ID,
		CabinID:       first.ID,
		UserID:        &student.ID,
		StartDate:     time.Now().AddDate(0, 0, 1),
		Months:        3,
		TotalPrice:    first.MonthlyPrice * 3,
		DepositAmount: first.RefundableDeposit,
		Status:        domain.BookingActive,
		PaymentStatus: domain.PaymentPaid,
	}
	if err := bookings.Create(ctx, b); err != nil {
		log.Fatal(err)
	}

	log.Println("Seed complete.")
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, password string, role domain.UserRole, name string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal(err)
	}
	return u
}

func ptr(v float64) *float64 { return &v }
