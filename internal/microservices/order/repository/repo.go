package repository

type Repository struct {
	OrderRepo OrderRepositoryInterface
}

func New(db DB) *Repository {
	return &Repository{
		OrderRepo: NewOrderRepository(db),
	}
}
