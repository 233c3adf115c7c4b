package dto

import (
	"time"

	"github.com/controle-financeiro/backend/internal/application/usecase/linking"
)

// LinkStatusResponse represents the response for the link status query.
type LinkStatusResponse struct {
	Linked   bool       `json:"linked"`
	LinkedAt *time.Time `json:"linked_at,omitempty"`
}

// LinkingCodeResponse represents the response for code issuance.
type LinkingCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToLinkStatusResponse converts the use case output to a response DTO.
func ToLinkStatusResponse(out *linking.GetLinkStatusOutput) LinkStatusResponse {
	return LinkStatusResponse{
		Linked:   out.Linked,
		LinkedAt: out.LinkedAt,
	}
}

// ToLinkingCodeResponse converts the use case output to a response DTO.
func ToLinkingCodeResponse(out *linking.IssueLinkingCodeOutput) LinkingCodeResponse {
	return LinkingCodeResponse{
		Code:      out.Code,
		ExpiresAt: out.ExpiresAt,
	}
}
