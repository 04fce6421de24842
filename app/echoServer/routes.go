package echoServer

import (
	"net/http"

	"librarycatalog/app/echoServer/controller/auth"
	"librarycatalog/app/echoServer/controller/author"
	"librarycatalog/app/echoServer/controller/book"
	"librarycatalog/app/echoServer/controller/catalog"
	"librarycatalog/app/echoServer/controller/instance"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Author    *author.Controller
	Book      *book.Controller
	Catalog   *catalog.Controller
	Instance  *instance.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public catalog reads: the classic URLconf paths.
	e.GET("/", c.Catalog.Index)
	e.GET("/books/", c.Book.List)
	e.GET("/book/:id", c.Book.Detail)
	e.GET("/author/", c.Author.List)
	e.GET("/author/:id", c.Author.Detail)
	e.GET("/genres/", c.Catalog.ListGenres)
	e.GET("/languages/", c.Catalog.ListLanguages)

	e.POST("/users/register", c.Auth.Register)
	e.POST("/users/login", c.Auth.Login)

	// Authenticated
	authG := e.Group("")
	authG.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id and role extraction from verified claims
	authG.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			if tokenObj == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tokenObj.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			role, _ := claims["role"].(string)
			ctx.Set("role", role)
			return next(ctx)
		}
	})

	// Borrower surface
	authG.GET("/mybooks/", c.Instance.MyBooks)

	// Librarian endpoints
	authG.POST("/genres/", c.Catalog.CreateGenre)
	authG.POST("/languages/", c.Catalog.CreateLanguage)
	authG.POST("/covers/", c.Catalog.CreateCover)

	authG.POST("/author/", c.Author.Create)
	authG.DELETE("/author/:id", c.Author.Delete)

	authG.POST("/books/", c.Book.Create)
	authG.DELETE("/book/:id", c.Book.Delete)
	authG.POST("/book/:id/cover", c.Book.UploadCover)
	authG.POST("/book/:id/file", c.Book.UploadFile)
	authG.POST("/book/:id/instances", c.Instance.Create)

	authG.GET("/instances/", c.Instance.List)
	authG.POST("/instance/:id/photo", c.Instance.UploadPhoto)
	authG.POST("/instance/:id/loan", c.Instance.Loan)
	authG.POST("/instance/:id/return", c.Instance.Return)
}
