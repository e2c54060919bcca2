package handlers

import (
	"github.com/jmoiron/sqlx"

	"suplementia/internal/config"
	"suplementia/internal/events"
	"suplementia/internal/repos"
	"suplementia/internal/services"
)

type Deps struct {
	ShopHandler    *ShopHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	APIHandler     *APIHandler
	ProfileHandler *ProfileHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, pub events.Publisher) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	addrRepo := repos.NewAddressRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, pub)

	return &Deps{
		ShopHandler:    &ShopHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		APIHandler:     &APIHandler{Catalog: catalogSvc, Order: orderSvc},
		ProfileHandler: &ProfileHandler{Addrs: addrRepo},
		AdminHandler: &AdminHandler{
			OrderRepo: orderRepo,
			Prods:     prodRepo,
			Cats:      catRepo,
			Users:     userRepo,
			MediaDir:  cfg.MediaDir,
		},
	}
}
