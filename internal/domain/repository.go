package domain

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrCustomerExists при занятом email.
	Create(customer Customer) error
	// FindByID возвращает клиента или ErrCustomerNotFound, если его нет.
	FindByID(id string) (Customer, error)
	// FindByEmail возвращает клиента по email или ErrCustomerNotFound.
	FindByEmail(email string) (Customer, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrProductExists при занятом имени.
	Create(product Product) error
	// FindByName возвращает товар по имени или ErrProductNotFound.
	FindByName(name string) (Product, error)
	// FindAllByID возвращает найденные товары по набору идентификаторов.
	// Результат может содержать меньше записей, чем запрошено — проверка
	// полноты лежит на вызывающей стороне.
	FindAllByID(ids []string) ([]Product, error)
	// UpdateQuantity списывает остатки по каждому найденному товару и
	// сохраняет весь набор атомарно в рамках одного вызова. Неизвестные
	// идентификаторы молча игнорируются; уход остатка в минус на этом
	// уровне не перепроверяется — это ответственность use case.
	UpdateQuantity(changes []QuantityChange) ([]Product, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями. Возвращает
	// ErrOrderExists, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает заказы клиента с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
}
