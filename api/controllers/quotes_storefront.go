package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vertilift/vertilift-backend/api/middleware"
	"github.com/vertilift/vertilift-backend/api/responses"
	"github.com/vertilift/vertilift-backend/api/validators"
	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/logger"
)

type requestQuoteItem struct {
	ProductName      string  `json:"product_name" validate:"required"`
	ProductSKU       string  `json:"product_sku" validate:"required"`
	ProductThumbnail *string `json:"product_thumbnail"`
	Quantity         int     `json:"quantity" validate:"required,min=1"`
}

type requestQuoteBody struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerEmail string             `json:"customer_email" validate:"required,email"`
	Message       string             `json:"message"`
	Items         []requestQuoteItem `json:"items" validate:"required,min=1,dive"`
}

// RequestQuote lets a signed-in customer submit a quote request. Prices are
// assigned during admin review.
func RequestQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.IdentityFromContext(r.Context())
		if claims == nil || claims.Subject == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to request a quote"))
			return
		}

		var body requestQuoteBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := quotes.CreateInput{
			CustomerID:    claims.Subject,
			CustomerName:  body.CustomerName,
			CustomerEmail: body.CustomerEmail,
			UserType:      claims.QuoteUserType(),
			Message:       body.Message,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, quotes.CreateItemInput{
				ProductName:      item.ProductName,
				ProductSKU:       item.ProductSKU,
				ProductThumbnail: item.ProductThumbnail,
				Quantity:         item.Quantity,
			})
		}

		quote, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// CustomerGetQuote returns the customer projection of a quote.
func CustomerGetQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.IdentityFromContext(r.Context())
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID := ""
		if claims != nil {
			customerID = claims.Subject
		}
		view, err := svc.CustomerView(r.Context(), id, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type customerMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// CustomerSendMessage appends a customer message to the quote conversation.
func CustomerSendMessage(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.IdentityFromContext(r.Context())
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Ownership check rides on the filtered view lookup.
		customerID := ""
		senderName := ""
		if claims != nil {
			customerID = claims.Subject
			senderName = claims.Name
		}
		if _, err := svc.CustomerView(r.Context(), id, customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body customerMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		message, err := svc.SendMessage(r.Context(), quotes.SendMessageInput{
			QuoteID:    id,
			SenderType: enums.SenderTypeCustomer,
			SenderName: senderName,
			Message:    body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}
