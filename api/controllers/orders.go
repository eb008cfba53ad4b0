package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vertilift/vertilift-backend/api/middleware"
	"github.com/vertilift/vertilift-backend/api/responses"
	"github.com/vertilift/vertilift-backend/api/validators"
	"github.com/vertilift/vertilift-backend/internal/orders"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/logger"
)

// ListMyOrders returns the signed-in customer's placed orders.
func ListMyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.IdentityFromContext(r.Context())
		customerID := ""
		if claims != nil {
			customerID = claims.Subject
		}
		rows, err := svc.ListByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetMyOrder returns one of the signed-in customer's orders.
func GetMyOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.IdentityFromContext(r.Context())
		id, err := validators.PathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if claims == nil || order.CustomerID != claims.Subject {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}
