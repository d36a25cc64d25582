package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/payment"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/server"
	"app/internal/usecase"
	"app/pkg/metrics"

	"github.com/joho/godotenv"
)

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.FileDetails{},
		&model.Product{},
		&model.Order{},
		&model.ProductInOrder{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	fileRepo := infraRepo.NewFileGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//商品画像の保存先
	store, err := storage.NewLocalFileStore(cfg.UploadDir)
	if err != nil {
		panic(err)
	}

	//Stripe gateway（キーはここで注入）
	gateway := payment.NewStripeCheckoutGateway(cfg.StripeSecretKey)
	checkout := usecase.NewCheckoutSessionBuilder(
		gateway,
		cfg.Currency,
		cfg.FEURL+"/success",
		cfg.FEURL+"/cancel",
		cfg.PublicURL,
	)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret)
	productUC := usecase.NewProductUsecase(txManager, productRepo, fileRepo, store, cfg.PublicURL)
	orderUC := usecase.NewOrderUsecase(txManager, productRepo, orderRepo, userRepo, checkout, cfg.StrictCart, cfg.PublicURL)
	fileUC := usecase.NewFileUsecase(fileRepo, store)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	productH := handler.NewProductHandler(productUC)
	adminProductH := handler.NewAdminProductHandler(productUC)
	orderH := handler.NewOrderHandler(orderUC)
	fileH := handler.NewFileHandler(fileUC)

	//Server起動
	m := metrics.NewServerMetrics("api")
	e := server.New(cfg, m)
	server.RegisterRoutes(e, cfg, userRepo, authH, productH, adminProductH, orderH, fileH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := e.Start(addr); err != nil {
		panic(err)
	}
}
