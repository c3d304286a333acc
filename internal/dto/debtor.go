package dto

import (
	"time"

	"github.com/posys/pos_ledger_app/internal/core/domain"
)

// CalculateFinesParams selects users eligible for a fine: those whose
// balance was at or below the threshold on every reference date.
type CalculateFinesParams struct {
	ReferenceDates []time.Time
	UserTypes      []domain.UserType
}

// BalanceAtDate reports a user's balance at one reference date.
type BalanceAtDate struct {
	Date   time.Time `json:"date"`
	Amount Money     `json:"amount"`
}

// EligibleUserResponse is one entry of the fine calculator output.
type EligibleUserResponse struct {
	ID         string          `json:"id"`
	FineAmount Money           `json:"fineAmount"`
	Balances   []BalanceAtDate `json:"balances"`
}

// HandOutFinesRequest issues fines to the listed users as of one reference
// date. An empty user list is a valid no-op producing an event with zero
// fines.
type HandOutFinesRequest struct {
	UserIDs       []string  `json:"userIds" binding:"required"`
	ReferenceDate time.Time `json:"referenceDate" binding:"required"`
}

// FineResponse describes one fine inside a handout event.
type FineResponse struct {
	ID     string `json:"id"`
	Amount Money  `json:"amount"`
	User   string `json:"user"`
}

// FineHandoutEventResponse is the result of a fine handout run.
type FineHandoutEventResponse struct {
	ID            string         `json:"id"`
	ReferenceDate time.Time      `json:"referenceDate"`
	CreatedBy     string         `json:"createdBy"`
	Fines         []FineResponse `json:"fines"`
}

// WaiveFinesRequest reduces or cancels a user's outstanding fines.
type WaiveFinesRequest struct {
	Amount Money `json:"amount" binding:"required"`
}

// UserFineGroupResponse is the updated fine group returned after a waiver.
type UserFineGroupResponse struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	Fines            []FineResponse `json:"fines"`
	WaivedTransferID *string        `json:"waivedTransferId,omitempty"`
}

// FineReportResponse summarizes fines and waivers in [fromDate, toDate).
type FineReportResponse struct {
	FromDate     time.Time `json:"fromDate"`
	ToDate       time.Time `json:"toDate"`
	Count        int       `json:"count"`
	HandedOut    Money     `json:"handedOut"`
	WaivedCount  int       `json:"waivedCount"`
	WaivedAmount Money     `json:"waivedAmount"`
}

// ToFineResponse converts a domain.Fine to its wire shape.
func ToFineResponse(f *domain.Fine, currency string, precision int32) FineResponse {
	return FineResponse{
		ID:     f.FineID,
		Amount: MoneyFromDecimal(f.Amount, currency, precision),
		User:   f.UserID,
	}
}

// ToFineHandoutEventResponse converts a handout event.
func ToFineHandoutEventResponse(e *domain.FineHandoutEvent, currency string, precision int32) FineHandoutEventResponse {
	fines := make([]FineResponse, len(e.Fines))
	for i := range e.Fines {
		fines[i] = ToFineResponse(&e.Fines[i], currency, precision)
	}
	return FineHandoutEventResponse{
		ID:            e.EventID,
		ReferenceDate: e.ReferenceDate,
		CreatedBy:     e.CreatedByID,
		Fines:         fines,
	}
}

// ToUserFineGroupResponse converts a fine group.
func ToUserFineGroupResponse(g *domain.UserFineGroup, currency string, precision int32) UserFineGroupResponse {
	fines := make([]FineResponse, len(g.Fines))
	for i := range g.Fines {
		fines[i] = ToFineResponse(&g.Fines[i], currency, precision)
	}
	return UserFineGroupResponse{
		ID:               g.GroupID,
		UserID:           g.UserID,
		Fines:            fines,
		WaivedTransferID: g.WaivedTransferID,
	}
}

// ToFineReportResponse converts a fine report.
func ToFineReportResponse(r *domain.FineReport, currency string, precision int32) FineReportResponse {
	return FineReportResponse{
		FromDate:     r.FromDate,
		ToDate:       r.ToDate,
		Count:        r.Count,
		HandedOut:    MoneyFromDecimal(r.HandedOut, currency, precision),
		WaivedCount:  r.WaivedCount,
		WaivedAmount: MoneyFromDecimal(r.WaivedAmount, currency, precision),
	}
}

// ToEligibleUserResponses converts calculator output.
func ToEligibleUserResponses(users []domain.UserToFine, currency string, precision int32) []EligibleUserResponse {
	out := make([]EligibleUserResponse, len(users))
	for i, u := range users {
		balances := make([]BalanceAtDate, len(u.Balances))
		for j, b := range u.Balances {
			balances[j] = BalanceAtDate{
				Date:   b.AsOf,
				Amount: MoneyFromDecimal(b.Amount, currency, precision),
			}
		}
		out[i] = EligibleUserResponse{
			ID:         u.UserID,
			FineAmount: MoneyFromDecimal(u.FineAmount, currency, precision),
			Balances:   balances,
		}
	}
	return out
}
