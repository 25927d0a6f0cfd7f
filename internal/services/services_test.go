package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/internal/db"
	"github.com/diewo77/go-curtains/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedCustomer(t *testing.T, conn *gorm.DB) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: "Khun Malee", Phone: "0812345678", Address: "99 Rama IV", Province: "Bangkok"}
	if err := conn.Create(c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

var ctx = context.Background()
