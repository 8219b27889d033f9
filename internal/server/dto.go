package server

import (
	"github.com/waritt/billsplit/internal/models"
	"github.com/waritt/billsplit/internal/service"
	"github.com/waritt/billsplit/internal/wizard"
)

// Wire representations of the wizard state. The core models carry no
// JSON tags; the HTTP surface owns its own shapes.

type participantDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type lineItemDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	AssignedTo []string `json:"assignedParticipantIds"`
}

type billDTO struct {
	ID                   string           `json:"id,omitempty"`
	Name                 string           `json:"name"`
	LineItems            []lineItemDTO    `json:"lineItems"`
	Participants         []participantDTO `json:"participants"`
	VATPercent           float64          `json:"vatPercent"`
	ServiceChargePercent float64          `json:"serviceChargePercent"`
	DiscountAmount       float64          `json:"discountAmount"`
	SplitMethod          string           `json:"splitMethod"`
	Status               string           `json:"status"`
	CategoryID           string           `json:"categoryId,omitempty"`
	CreatedAt            int64            `json:"createdAt,omitempty"`
	Subtotal             float64          `json:"subtotal"`
	FinalTotal           float64          `json:"finalTotal"`
}

type breakdownEntryDTO struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type splitResultDTO struct {
	ParticipantID string              `json:"participantId"`
	Amount        float64             `json:"amount"`
	Breakdown     []breakdownEntryDTO `json:"breakdown"`
}

type sessionStateDTO struct {
	Step       string           `json:"step"`
	StepIndex  int              `json:"stepIndex"`
	CanAdvance bool             `json:"canAdvance"`
	Bill       billDTO          `json:"bill"`
	Results    []splitResultDTO `json:"results,omitempty"`
	Bills      []billDTO        `json:"bills"`
	Toast      string           `json:"toast,omitempty"`
	Loading    bool             `json:"loading"`
}

// Request bodies. Pointer fields mean "leave unchanged".

type updateBillRequest struct {
	Name                 *string  `json:"name"`
	VATPercent           *float64 `json:"vatPercent"`
	ServiceChargePercent *float64 `json:"serviceChargePercent"`
	DiscountAmount       *float64 `json:"discountAmount"`
	CategoryID           *string  `json:"categoryId"`
	SplitMethod          *string  `json:"splitMethod"`
}

type updateParticipantRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

type updateItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type assignItemRequest struct {
	ParticipantIDs []string `json:"participantIds"`
}

type gotoStepRequest struct {
	Step string `json:"step"`
}

type shareRequest struct {
	PromptPayID string `json:"promptPayId"`
	QRPayload   string `json:"qrPayload"`
	Notes       string `json:"notes"`
}

type shareDTO struct {
	BillID      string           `json:"billId"`
	Name        string           `json:"name"`
	FinalTotal  float64          `json:"finalTotal"`
	Status      string           `json:"status"`
	PromptPayID string           `json:"promptPayId"`
	QRPayload   string           `json:"qrPayload"`
	Notes       string           `json:"notes"`
	Results     []splitResultDTO `json:"results"`
}

func toShareDTO(p *service.ShareProjection) shareDTO {
	return shareDTO{
		BillID:      p.BillID,
		Name:        p.Name,
		FinalTotal:  p.FinalTotal,
		Status:      string(p.Status),
		PromptPayID: p.PromptPayID,
		QRPayload:   p.QRPayload,
		Notes:       p.Notes,
		Results:     toSplitResultDTOs(p.Results),
	}
}

func toBillDTO(b models.Bill) billDTO {
	items := make([]lineItemDTO, len(b.LineItems))
	for i, item := range b.LineItems {
		assigned := item.AssignedTo
		if assigned == nil {
			assigned = []string{}
		}
		items[i] = lineItemDTO{
			ID:         item.ID,
			Name:       item.Name,
			Price:      item.Price,
			AssignedTo: assigned,
		}
	}
	participants := make([]participantDTO, len(b.Participants))
	for i, p := range b.Participants {
		participants[i] = participantDTO{
			ID:     p.ID,
			Name:   p.Name,
			Status: string(p.Status),
		}
	}
	return billDTO{
		ID:                   b.ID,
		Name:                 b.Name,
		LineItems:            items,
		Participants:         participants,
		VATPercent:           b.VATPercent,
		ServiceChargePercent: b.ServiceChargePercent,
		DiscountAmount:       b.DiscountAmount,
		SplitMethod:          string(b.Method),
		Status:               string(b.Status),
		CategoryID:           b.CategoryID,
		CreatedAt:            b.CreatedAt,
		Subtotal:             b.Subtotal(),
		FinalTotal:           b.FinalTotal(),
	}
}

func toSplitResultDTOs(results []models.SplitResult) []splitResultDTO {
	dtos := make([]splitResultDTO, len(results))
	for i, r := range results {
		breakdown := make([]breakdownEntryDTO, len(r.Breakdown))
		for j, entry := range r.Breakdown {
			breakdown[j] = breakdownEntryDTO{Label: entry.Label, Amount: entry.Amount}
		}
		dtos[i] = splitResultDTO{
			ParticipantID: r.ParticipantID,
			Amount:        r.Amount,
			Breakdown:     breakdown,
		}
	}
	return dtos
}

func toSessionStateDTO(controller *wizard.Controller) sessionStateDTO {
	state := controller.State()
	bills := make([]billDTO, len(state.Bills))
	for i, b := range state.Bills {
		bills[i] = toBillDTO(b)
	}
	return sessionStateDTO{
		Step:       controller.Step().String(),
		StepIndex:  controller.Step().Index(),
		CanAdvance: controller.CanAdvance(),
		Bill:       toBillDTO(state.Bill),
		Results:    toSplitResultDTOs(state.Results),
		Bills:      bills,
		Toast:      state.Toast,
		Loading:    state.Loading,
	}
}
