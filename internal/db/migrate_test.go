package db

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/internal/config"
	"github.com/diewo77/go-curtains/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestMigrate_CreatesTables(t *testing.T) {
	conn := setupTestDB(t)
	for _, table := range []any{&models.User{}, &models.Customer{}, &models.Quotation{}, &models.QuotationItem{}, &models.InstallationJob{}, &models.Referrer{}, &models.AccountingDocument{}} {
		if !conn.Migrator().HasTable(table) {
			t.Errorf("missing table for %T", table)
		}
	}
}

func TestSeedAdmin(t *testing.T) {
	conn := setupTestDB(t)

	created, err := SeedAdmin(conn, " Admin@Shop.test ", "s3cret")
	if err != nil || !created {
		t.Fatalf("SeedAdmin = (%v, %v), want (true, nil)", created, err)
	}
	var admin models.User
	if err := conn.Where("email = ?", "admin@shop.test").First(&admin).Error; err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if admin.Role != gate.RoleAdmin || !admin.Active {
		t.Errorf("unexpected admin: role=%q active=%v", admin.Role, admin.Active)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("s3cret")) != nil {
		t.Error("password not hashed with bcrypt")
	}

	created, err = SeedAdmin(conn, "other@shop.test", "x")
	if err != nil || created {
		t.Errorf("second SeedAdmin = (%v, %v), want (false, nil)", created, err)
	}
}

func TestSeedAdmin_PromotesExisting(t *testing.T) {
	conn := setupTestDB(t)
	u := models.User{Email: "boss@shop.test", Password: "x", Role: gate.RoleSupervisor, Active: false}
	if err := conn.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	if created, err := SeedAdmin(conn, "boss@shop.test", "pw"); err != nil || !created {
		t.Fatalf("SeedAdmin = (%v, %v)", created, err)
	}
	var got models.User
	conn.First(&got, u.ID)
	if got.Role != gate.RoleAdmin || !got.Active {
		t.Errorf("expected promoted active admin, got role=%q active=%v", got.Role, got.Active)
	}
}

func TestSeedAdmin_NoCredentials(t *testing.T) {
	conn := setupTestDB(t)
	if created, err := SeedAdmin(conn, "", ""); err != nil || created {
		t.Errorf("SeedAdmin with empty creds = (%v, %v)", created, err)
	}
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())}
	conn, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Ping(context.Background(), conn); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, nil); err == nil {
		t.Error("expected error for unknown driver")
	}
}
