package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/invoice-umkm/internal/models"
	"github.com/diewo77/invoice-umkm/internal/plan"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	dbi, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbi.AutoMigrate(&models.User{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

func seedInvoices(t *testing.T, dbi *gorm.DB, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		inv := models.Invoice{
			ID:            fmt.Sprintf("%s-inv-%d", userID, i),
			UserID:        userID,
			InvoiceNumber: "INV-000000-000",
			CustomerName:  "Seed",
			ThemeColor:    "#000000",
			Status:        "pending",
			Total:         1000,
		}
		if err := dbi.Create(&inv).Error; err != nil {
			t.Fatalf("seed invoice %d: %v", i, err)
		}
	}
}

func TestGetUsageAutoProvisions(t *testing.T) {
	dbi := setupTestDB(t)
	svc := NewUsageService(dbi)
	ctx := context.Background()

	snap, err := svc.GetUsage(ctx, "client-abc", "")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if snap.Plan != plan.Free || snap.InvoiceCount != 0 || snap.Limit != plan.FreeLimit {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.CanCreate || snap.IsPro {
		t.Fatalf("fresh user should be FREE and allowed to create: %+v", snap)
	}

	var user models.User
	if err := dbi.First(&user, "id = ?", "client-abc").Error; err != nil {
		t.Fatalf("provisioned user missing: %v", err)
	}
	if !strings.Contains(user.Email, "client-abc") {
		t.Fatalf("expected synthesized email, got %q", user.Email)
	}
}

func TestGetUsageFallsBackToEmail(t *testing.T) {
	dbi := setupTestDB(t)
	svc := NewUsageService(dbi)
	ctx := context.Background()

	if err := dbi.Create(&models.User{ID: "u1", Email: "budi@example.com", Plan: "FREE"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	// unknown id, known email: must resolve the existing row, not create one
	snap, err := svc.GetUsage(ctx, "", "budi@example.com")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if snap.Plan != plan.Free {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	var count int64
	dbi.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestGetUsageConcurrentProvisionIsSingle(t *testing.T) {
	dbi := setupTestDB(t)
	svc := NewUsageService(dbi)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GetUsage(context.Background(), "racer", "racer@example.com")
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	var count int64
	dbi.Model(&models.User{}).Where("id = ?", "racer").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one user row, got %d", count)
	}
}

func TestGetUsageAtLimit(t *testing.T) {
	dbi := setupTestDB(t)
	svc := NewUsageService(dbi)
	ctx := context.Background()

	if err := dbi.Create(&models.User{ID: "full", Email: "full@example.com", Plan: "FREE"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	seedInvoices(t, dbi, "full", plan.FreeLimit)

	snap, err := svc.GetUsage(ctx, "full", "")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if snap.CanCreate || snap.Remaining != 0 || snap.InvoiceCount != plan.FreeLimit {
		t.Fatalf("expected exhausted quota, got %+v", snap)
	}
}

func TestUpgrade(t *testing.T) {
	dbi := setupTestDB(t)
	svc := NewUsageService(dbi)
	ctx := context.Background()

	if err := dbi.Create(&models.User{ID: "u1", Email: "u1@example.com", Plan: "FREE"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	user, err := svc.Upgrade(ctx, "u1", "")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if user.Plan != string(plan.Pro) {
		t.Fatalf("expected PRO, got %s", user.Plan)
	}
	// idempotent
	user, err = svc.Upgrade(ctx, "u1", "")
	if err != nil || user.Plan != string(plan.Pro) {
		t.Fatalf("second upgrade: plan=%s err=%v", user.Plan, err)
	}
	// PRO usage is unlimited
	snap, err := svc.GetUsage(ctx, "u1", "")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if !snap.IsPro || !snap.CanCreate || snap.Limit != plan.Unlimited || snap.Remaining != plan.Unlimited {
		t.Fatalf("unexpected PRO snapshot: %+v", snap)
	}
}

func TestUpgradeUnknownUser(t *testing.T) {
	dbi := setupTestDB(t)
	svc := NewUsageService(dbi)

	if _, err := svc.Upgrade(context.Background(), "ghost", ""); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
