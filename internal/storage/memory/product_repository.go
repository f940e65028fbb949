package memory

import (
	"sync"
	"time"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
	// byName ускоряет проверку уникальности имени товара.
	byName map[string]string
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items:  make(map[string]domain.Product),
		byName: make(map[string]string),
	}
}

// Create сохраняет новый товар, если имя ещё не занято.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[product.Name]; exists {
		return domain.ErrProductExists
	}
	if _, exists := r.items[product.ID]; exists {
		return domain.ErrProductExists
	}

	r.items[product.ID] = product
	r.byName[product.Name] = product.ID
	return nil
}

// FindByName возвращает товар по имени или ErrProductNotFound.
func (r *productRepositoryInMemory) FindByName(name string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return r.items[id], nil
}

// FindAllByID возвращает найденные товары; отсутствующие идентификаторы
// просто не попадают в результат.
func (r *productRepositoryInMemory) FindAllByID(ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if product, ok := r.items[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

// UpdateQuantity списывает остатки по найденным товарам одним батчем под
// общей блокировкой. Неизвестные идентификаторы молча игнорируются,
// неотрицательность результата здесь не перепроверяется.
func (r *productRepositoryInMemory) UpdateQuantity(changes []domain.QuantityChange) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	updated := make([]domain.Product, 0, len(changes))
	for _, change := range changes {
		product, ok := r.items[change.ProductID]
		if !ok {
			continue
		}
		product.Quantity -= change.Qty
		product.UpdatedAt = now
		r.items[change.ProductID] = product
		updated = append(updated, product)
	}

	return updated, nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
