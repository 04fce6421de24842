package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"librarycatalog/model"
	authsvc "librarycatalog/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Register a new borrower account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email/username already taken"
// @Router       /users/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	u, tok, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		case errors.Is(err, authsvc.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "username already taken"})
		case errors.Is(err, authsvc.ErrBadInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		ct.Log.Error("register failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"user": u, "token": tok})
}

// Login
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /users/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	u, tok, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid email or password"})
		}
		ct.Log.Error("login failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": u, "token": tok})
}
