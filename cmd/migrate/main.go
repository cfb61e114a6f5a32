package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/his-platform/inventory-service/internal/domain"
	mongoRepo "github.com/his-platform/inventory-service/internal/infrastructure/mongodb"
)

// Bootstrap tool for a fresh inventory database. Creates collection indexes
// and seeds the initial admin account plus a base set of categories.

var (
	mongoURI      = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	dbName        = flag.String("db", "inventory", "Database name")
	adminUser     = flag.String("admin-user", "admin", "Initial admin username")
	adminEmail    = flag.String("admin-email", "admin@hospital.local", "Initial admin email")
	adminPassword = flag.String("admin-password", "", "Initial admin password (required to seed the admin account)")
	seedDefaults  = flag.Bool("seed-defaults", true, "Seed default categories and departments")
)

func main() {
	flag.Parse()

	log.Printf("Bootstrapping inventory database %q at %s", *dbName, *mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database(*dbName)

	// Repository constructors ensure their collection indexes.
	userRepo := mongoRepo.NewUserRepository(db)
	categoryRepo := mongoRepo.NewCategoryRepository(db)
	departmentRepo := mongoRepo.NewDepartmentRepository(db)
	mongoRepo.NewItemRepository(db)
	log.Printf("Indexes ensured")

	if *adminPassword != "" {
		if err := seedAdmin(ctx, userRepo); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	} else {
		log.Printf("No -admin-password given, skipping admin account")
	}

	if *seedDefaults {
		seedCategories(ctx, categoryRepo)
		seedDepartments(ctx, departmentRepo)
	}

	log.Printf("Bootstrap complete")
}

func seedAdmin(ctx context.Context, repo *mongoRepo.UserRepository) error {
	existing, err := repo.FindByUsername(ctx, *adminUser)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("Admin account %q already exists, skipping", *adminUser)
		return nil
	}

	admin, err := domain.NewUser(*adminUser, *adminEmail, *adminPassword, "Administrator", domain.RoleAdmin, "")
	if err != nil {
		return err
	}

	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("Seeded admin account %q", *adminUser)
	return nil
}

func seedCategories(ctx context.Context, repo *mongoRepo.CategoryRepository) {
	defaults := []struct {
		name        string
		description string
	}{
		{"Medications", "Pharmaceuticals and controlled substances"},
		{"Medical Supplies", "Consumables such as gloves, syringes and dressings"},
		{"Equipment", "Durable medical equipment and instruments"},
		{"Laboratory", "Lab reagents and testing supplies"},
	}

	for _, d := range defaults {
		category, err := domain.NewCategory(d.name, d.description)
		if err != nil {
			log.Printf("Skipping category %q: %v", d.name, err)
			continue
		}
		if err := repo.Create(ctx, category); err != nil {
			// Duplicate names mean the category was seeded before.
			log.Printf("Category %q not created: %v", d.name, err)
			continue
		}
		log.Printf("Seeded category %q", d.name)
	}
}

func seedDepartments(ctx context.Context, repo *mongoRepo.DepartmentRepository) {
	defaults := []struct {
		name        string
		description string
		location    string
	}{
		{"Pharmacy", "Central pharmacy", "Building A, Ground Floor"},
		{"Emergency", "Emergency department", "Building A, Ground Floor"},
		{"Surgery", "Operating theatres", "Building B, 2nd Floor"},
	}

	for _, d := range defaults {
		department, err := domain.NewDepartment(d.name, d.description, d.location, "")
		if err != nil {
			log.Printf("Skipping department %q: %v", d.name, err)
			continue
		}
		if err := repo.Create(ctx, department); err != nil {
			log.Printf("Department %q not created: %v", d.name, err)
			continue
		}
		log.Printf("Seeded department %q", d.name)
	}
}
