// Package main library catalog API.
//
// @title           Library Catalog API
// @version         1.0
// @description     Catalog service (books, authors, genres, languages, copies, borrowers).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"librarycatalog/app/echoServer"
	authctrl "librarycatalog/app/echoServer/controller/auth"
	authorctrl "librarycatalog/app/echoServer/controller/author"
	bookctrl "librarycatalog/app/echoServer/controller/book"
	catalogctrl "librarycatalog/app/echoServer/controller/catalog"
	instancectrl "librarycatalog/app/echoServer/controller/instance"
	"librarycatalog/app/echoServer/validation"
	"librarycatalog/config"
	authrepo "librarycatalog/repository/auth"
	authorrepo "librarycatalog/repository/author"
	bookrepo "librarycatalog/repository/book"
	catalogrepo "librarycatalog/repository/catalog"
	instancerepo "librarycatalog/repository/instance"
	authsvc "librarycatalog/service/auth"
	authorsvc "librarycatalog/service/author"
	booksvc "librarycatalog/service/book"
	catalogsvc "librarycatalog/service/catalog"
	instancesvc "librarycatalog/service/instance"
	"librarycatalog/storage"
	"librarycatalog/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// object storage for covers, photos and book files
	store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Error("object store connect failed", "err", err)
		os.Exit(1)
	}

	// repos
	ar := authrepo.New(db)
	aur := authorrepo.New(db)
	br := bookrepo.New(db)
	cr := catalogrepo.New(db)
	ir := instancerepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	aus := authorsvc.New(aur, br)
	bs := booksvc.New(br, store)
	cs := catalogsvc.New(cr, store)
	is := instancesvc.New(ir, store)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	authorC := &authorctrl.Controller{Svc: aus, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	catalogC := &catalogctrl.Controller{Svc: cs, V: v, Log: log}
	instanceC := &instancectrl.Controller{Svc: is, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Author:   authorC,
		Book:     bookC,
		Catalog:  catalogC,
		Instance: instanceC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
