package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/appbank/credit-engine/internal/domain"
	"github.com/appbank/credit-engine/internal/service"
	"github.com/appbank/credit-engine/pkg/response"
	"github.com/appbank/credit-engine/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ProductHandler exposes the issuance and eligibility endpoints.
type ProductHandler struct {
	issuance    *service.IssuanceService
	eligibility *service.EligibilityService
	validator   *validator.Validate
}

func NewProductHandler(issuance *service.IssuanceService, eligibility *service.EligibilityService) *ProductHandler {
	return &ProductHandler{
		issuance:    issuance,
		eligibility: eligibility,
		validator:   validator.New(),
	}
}

// CreateBankAccount handles POST /api/v1/bank-accounts
func (h *ProductHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	account, err := h.issuance.CreateBankAccount(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, account)
}

// CreateCreditCard handles POST /api/v1/credit-cards
func (h *ProductHandler) CreateCreditCard(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCreditCardRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	card, err := h.issuance.CreateCreditCard(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, card)
}

// CreateCredit handles POST /api/v1/credits
func (h *ProductHandler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	credit, err := h.issuance.CreateCredit(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, credit)
}

// DeleteCredit handles DELETE /api/v1/credits/{creditId}
func (h *ProductHandler) DeleteCredit(w http.ResponseWriter, r *http.Request) {
	creditID := mux.Vars(r)["creditId"]

	if err := h.issuance.DeleteCredit(r.Context(), creditID); err != nil {
		response.BusinessError(w, err)
		return
	}

	response.NoContent(w)
}

// GetEligibility handles GET /api/v1/clients/{clientId}/eligibility
func (h *ProductHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	overdue, err := h.eligibility.HasOverdueDebt(r.Context(), clientID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.EligibilityResponse{
		ClientID:       clientID,
		HasOverdueDebt: overdue,
	})
}

// GetMonthlyFee handles GET /api/v1/credits/fee?amount=&rate=&months=
func (h *ProductHandler) GetMonthlyFee(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil || !amount.IsPositive() {
		response.BadRequest(w, "amount must be a positive decimal", err)
		return
	}

	rate, err := decimal.NewFromString(r.URL.Query().Get("rate"))
	if err != nil || rate.IsNegative() {
		response.BadRequest(w, "rate must be a non-negative decimal", err)
		return
	}

	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	if err != nil || months <= 0 {
		response.BadRequest(w, "months must be a positive integer", err)
		return
	}

	response.Success(w, domain.MonthlyFeeResponse{
		TotalAmount:  amount,
		InterestRate: rate,
		TotalMonths:  months,
		MonthlyFee:   utils.MonthlyFee(amount, rate, months),
	})
}
