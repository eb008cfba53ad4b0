package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/api/middleware"
	"github.com/vertilift/vertilift-backend/api/responses"
	"github.com/vertilift/vertilift-backend/api/validators"
	"github.com/vertilift/vertilift-backend/internal/quotes"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/pagination"
)

// AdminListQuotes serves the review queue with optional status/priority
// filters and cursor pagination.
func AdminListQuotes(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := quotes.ListFilter{CustomerID: r.URL.Query().Get("customer_id")}

		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseQuoteStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("priority"); raw != "" {
			priority, err := enums.ParseQuotePriority(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			filter.Priority = &priority
		}

		cursor, err := pagination.Decode(r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Cursor = cursor

		limit, err := validators.QueryInt(r, "limit", pagination.DefaultLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Limit = limit

		result, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"quotes":      result.Quotes,
			"next_cursor": result.NextCursor,
		})
	}
}

// AdminGetQuote returns the full quote, internal messages included.
func AdminGetQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// AdminStartReview moves a pending quote into reviewing.
func AdminStartReview(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.StartReview(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type approveQuoteRequest struct {
	Note string `json:"note"`
}

// AdminApproveQuote approves a reviewed quote.
func AdminApproveQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body approveQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Approve(r.Context(), quotes.ApproveInput{
			QuoteID:   id,
			AdminName: adminName(r),
			Note:      body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type rejectQuoteRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// AdminRejectQuote rejects a reviewed quote with a reason.
func AdminRejectQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body rejectQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Reject(r.Context(), quotes.RejectInput{
			QuoteID:   id,
			AdminName: adminName(r),
			Reason:    body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type updatePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=low medium high"`
}

// AdminUpdatePriority reorders the review queue.
func AdminUpdatePriority(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updatePriorityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.UpdatePriority(r.Context(), quotes.UpdatePriorityInput{
			QuoteID:  id,
			Priority: enums.QuotePriority(body.Priority),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type updateItemPricingRequest struct {
	Field string          `json:"field" validate:"required,oneof=unit_price discount_percentage"`
	Value decimal.Decimal `json:"value"`
}

// AdminUpdateItemPricing edits one pricing field on one item.
func AdminUpdateItemPricing(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quoteID, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemID"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateItemPricingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.UpdateItemPricing(r.Context(), quotes.UpdateItemPricingInput{
			QuoteID: quoteID,
			ItemID:  itemID,
			Field:   quotes.PricingField(body.Field),
			Value:   body.Value,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// AdminSavePricing recomputes and persists all totals atomically.
func AdminSavePricing(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.SavePricing(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type adminMessageRequest struct {
	Message    string `json:"message" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

// AdminSendMessage appends an admin message or internal note.
func AdminSendMessage(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body adminMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		message, err := svc.SendMessage(r.Context(), quotes.SendMessageInput{
			QuoteID:    id,
			SenderType: enums.SenderTypeAdmin,
			SenderName: adminName(r),
			Message:    body.Message,
			IsInternal: body.IsInternal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// AdminConvertQuote converts an approved quote into an order.
func AdminConvertQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "quoteID"), "quote id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.ConvertToOrder(r.Context(), quotes.ConvertInput{
			QuoteID:   id,
			AdminName: adminName(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func adminName(r *http.Request) string {
	claims := middleware.IdentityFromContext(r.Context())
	if claims == nil {
		return ""
	}
	if claims.Name != "" {
		return claims.Name
	}
	return claims.Subject
}
