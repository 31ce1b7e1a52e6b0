package repository

type Repository struct {
	RestaurantRepo RestaurantRepositoryInterface
	ProductRepo    ProductRepositoryInterface
}

func New(db DB) *Repository {
	return &Repository{
		RestaurantRepo: NewRestaurantRepository(db),
		ProductRepo:    NewProductRepository(db),
	}
}
