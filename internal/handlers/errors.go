package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/menuwal/internal/cart"
	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/Lixing-Zhang/menuwal/internal/storage"
)

// errorStatus maps domain errors to an HTTP status and client message.
// Unknown errors become a 500 with a generic message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, service.ErrMenuNotFound):
		return http.StatusNotFound, "Menu not found"
	case errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, cart.ErrCartNotFound):
		return http.StatusNotFound, "Cart not found"
	case errors.Is(err, cart.ErrLimitReached):
		return http.StatusConflict, cart.ErrLimitReached.Error()
	case errors.Is(err, cart.ErrItemNotInCart):
		return http.StatusConflict, "Item not in cart"
	case errors.Is(err, service.ErrOrderingDisabled):
		return http.StatusConflict, "This menu does not accept orders"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, service.ErrMissingCustomerField):
		return http.StatusBadRequest, "Customer name, mobile and room/table number are required"
	case errors.Is(err, service.ErrUnknownItem):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantity must be positive"
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest, "Name, mobile and a rating from 1 to 5 are required"
	case errors.Is(err, storage.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, storage.ErrUnsupportedType.Error()
	case errors.Is(err, service.ErrOrderNotPersisted):
		return http.StatusBadGateway, "Order could not be saved, please try again"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeServiceError logs err and writes the mapped response
func writeServiceError(w http.ResponseWriter, err error, msg string, logger *slog.Logger, attrs ...any) {
	status, message := errorStatus(err)
	attrs = append(attrs, "error", err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, attrs...)
	} else {
		logger.Info(msg, attrs...)
	}
	WriteError(w, status, message, logger)
}
