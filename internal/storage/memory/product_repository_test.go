package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
	"github.com/matheusrpd/gostack-desafio-09/internal/storage/memory"
)

func newProduct(id, name string, price int64, qty int32) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:         id,
		Name:       name,
		PriceMinor: price,
		Quantity:   qty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	repo := memory.NewProductRepository()

	if err := repo.Create(newProduct("p-1", "Keyboard", 4500, 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindByName("Keyboard")
	if err != nil {
		t.Fatalf("find by name failed: %v", err)
	}
	if found.ID != "p-1" {
		t.Fatalf("expected id p-1, got %s", found.ID)
	}

	if _, err := repo.FindByName("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_CreateDuplicateName(t *testing.T) {
	repo := memory.NewProductRepository()

	if err := repo.Create(newProduct("p-1", "Keyboard", 4500, 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(newProduct("p-2", "Keyboard", 3000, 5)); !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists, got %v", err)
	}
}

func TestProductRepository_FindAllByID(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct("p-1", "Keyboard", 4500, 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(newProduct("p-2", "Mouse", 1999, 3)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Отсутствующие и повторяющиеся идентификаторы не раздувают результат.
	found, err := repo.FindAllByID([]string{"p-1", "p-2", "p-1", "missing"})
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 products, got %d", len(found))
	}
}

func TestProductRepository_UpdateQuantity(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct("p-1", "Keyboard", 4500, 10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(newProduct("p-2", "Mouse", 1999, 3)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.UpdateQuantity([]domain.QuantityChange{
		{ProductID: "p-1", Qty: 4},
		{ProductID: "p-2", Qty: 3},
		{ProductID: "missing", Qty: 1}, // молча игнорируется
	})
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected 2 updated products, got %d", len(updated))
	}

	p1, err := repo.FindByName("Keyboard")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if p1.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", p1.Quantity)
	}

	p2, err := repo.FindByName("Mouse")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if p2.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", p2.Quantity)
	}
}
