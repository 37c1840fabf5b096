package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront-api/internal/authz"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/order"
	"storefront-api/pkg/database"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListOrders returns the caller's orders. Anonymous callers get an
// empty list rather than an error.
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.CurrentUser(c)

	if claims == nil {
		return c.JSON(http.StatusOK, []model.Order{})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	orders, err := order.ListForUser(database.GetDB(), claims.UserID)
	if err != nil {
		log.Error("Failed to list orders",
			zap.Uint("user_id", claims.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to retrieve orders"})
	}

	prometheus.RecordOrderOperation("list")
	return c.JSON(http.StatusOK, orders)
}

// CreateOrder places a new order for the authenticated caller
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.CurrentUser(c)

	var req order.CreateRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid order payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	ord, err := order.Create(database.GetDB(), claims.UserID, req)
	if err != nil {
		var verrs order.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("Order payload failed validation", zap.Int("fields", len(verrs)))
			return c.JSON(http.StatusBadRequest, verrs)
		}
		log.Error("Failed to save order",
			zap.Uint("user_id", claims.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": "Saving order internal server error!",
		})
	}

	prometheus.RecordOrderOperation("create")
	log.Info("Order created",
		zap.Uint("order_id", ord.ID),
		zap.Uint("user_id", claims.UserID),
		zap.Int("items", len(req.OrderItems)))
	return c.JSON(http.StatusCreated, ord)
}

// GetOrder returns one order merged with its shipping fields and items
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	ord, err := order.Get(database.GetDB(), uint(id))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		log.Error("Failed to load order", zap.Uint64("order_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": fmt.Sprintf("Error fetching order with id %d", id),
		})
	}

	if !authz.CanReadOrder(claims, ord) {
		return forbidden(c)
	}

	detail, err := order.Detail(database.GetDB(), ord)
	if err != nil {
		if errors.Is(err, order.ErrShippingMissing) {
			log.Error("Order detail assembly failed",
				zap.Uint64("order_id", id),
				zap.String("step", "load shipping address"),
				zap.Error(err))
		} else {
			log.Error("Order detail assembly failed",
				zap.Uint64("order_id", id),
				zap.String("step", "load order items"),
				zap.Error(err))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"detail": fmt.Sprintf("Error fetching order with id %d", id),
		})
	}

	prometheus.RecordOrderOperation("get")
	return c.JSON(http.StatusOK, detail)
}
