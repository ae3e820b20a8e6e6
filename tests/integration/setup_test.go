package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	productDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	productRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/repository"
	userDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/domain"
	userRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/repository"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "pos_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/pos_test?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := runMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func runMigrations(db *sql.DB) error {
	migrationDir := "../../migrations"
	files, err := os.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		content, err := os.ReadFile(filepath.Join(migrationDir, filename))
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return nil
}

func createTestUser(t *testing.T, db *sql.DB, username string) *userDomain.User {
	t.Helper()
	user := &userDomain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := userRepo.NewPostgresUserRepository(db).CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Create user %s: %v", username, err)
	}
	return user
}

func createTestProduct(t *testing.T, db *sql.DB, sku string, quantity int, price string) *productDomain.Product {
	t.Helper()
	product := &productDomain.Product{
		SKU:      sku,
		Name:     "Product " + sku,
		Brand:    "Sin Marca",
		Category: productDomain.CategoryOther,
		Gender:   productDomain.GenderUnisex,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		MinStock: 1,
	}
	if err := productRepo.NewPostgresProductRepository(db).CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("Create product %s: %v", sku, err)
	}
	return product
}

func productQuantity(t *testing.T, db *sql.DB, productID string) int {
	t.Helper()
	product, err := productRepo.NewPostgresProductRepository(db).GetProductByID(context.Background(), productID)
	if err != nil {
		t.Fatalf("Get product %s: %v", productID, err)
	}
	return product.Quantity
}
