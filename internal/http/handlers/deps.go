package handlers

import (
	"github.com/jmoiron/sqlx"

	"tradepost/internal/config"
	"tradepost/internal/repos"
	"tradepost/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ListingHandler *ListingHandler
	OrderHandler   *OrderHandler
	CartHandler    *CartHandler
	WalletHandler  *WalletHandler
	ReviewHandler  *ReviewHandler
	ProfileHandler *ProfileHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	walletRepo := repos.NewWalletRepo(db)
	txnRepo := repos.NewTxnRepo(db)
	cartRepo := repos.NewCartRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	authSvc := &services.AuthService{Users: userRepo, StartingBalance: cfg.StartingBalance}
	catalogSvc := services.NewCatalogService(listingRepo)
	orderSvc := services.NewOrderService(db, userRepo, listingRepo, walletRepo, txnRepo, cartRepo, cfg.CancelWindow)
	cartSvc := services.NewCartService(cartRepo, listingRepo)
	walletSvc := services.NewWalletService(walletRepo)
	reviewSvc := services.NewReviewService(reviewRepo, listingRepo)
	profileSvc := services.NewProfileService(userRepo, txnRepo)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ListingHandler: &ListingHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		WalletHandler:  &WalletHandler{Wallet: walletSvc},
		ReviewHandler:  &ReviewHandler{Reviews: reviewSvc},
		ProfileHandler: &ProfileHandler{Profile: profileSvc},
	}
}
