package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/controle-financeiro/backend/internal/application/usecase/linking"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/dto"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/middleware"
)

// TelegramController handles the Telegram integration endpoints: link
// status, linking code issuance and unlinking.
type TelegramController struct {
	issueUseCase  *linking.IssueLinkingCodeUseCase
	statusUseCase *linking.GetLinkStatusUseCase
	unlinkUseCase *linking.UnlinkChannelUseCase
}

// NewTelegramController creates a new Telegram controller instance.
func NewTelegramController(
	issueUseCase *linking.IssueLinkingCodeUseCase,
	statusUseCase *linking.GetLinkStatusUseCase,
	unlinkUseCase *linking.UnlinkChannelUseCase,
) *TelegramController {
	return &TelegramController{
		issueUseCase:  issueUseCase,
		statusUseCase: statusUseCase,
		unlinkUseCase: unlinkUseCase,
	}
}

// Status handles GET /api/v1/telegram/status requests.
func (tc *TelegramController) Status(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	out, err := tc.statusUseCase.Execute(c.Request.Context(), linking.GetLinkStatusInput{UserID: userID})
	if err != nil {
		slog.Error("Failed to query link status", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to check link status",
			Code:  string(domainerror.ErrCodeLinkingStoreFailure),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkStatusResponse(out))
}

// GenerateCode handles POST /api/v1/telegram/code requests.
// Every request issues a fresh code; previously issued codes stay valid
// until they individually expire.
func (tc *TelegramController) GenerateCode(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	out, err := tc.issueUseCase.Execute(c.Request.Context(), linking.IssueLinkingCodeInput{UserID: userID})
	if err != nil {
		if errors.Is(err, domainerror.ErrLinkingCodeCollision) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Error: "Could not issue a linking code right now, try again",
				Code:  string(domainerror.ErrCodeLinkingCodeCollision),
			})
			return
		}

		slog.Error("Failed to issue linking code", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to generate linking code",
			Code:  string(domainerror.ErrCodeLinkingStoreFailure),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkingCodeResponse(out))
}

// Unlink handles DELETE /api/v1/telegram/unlink requests.
func (tc *TelegramController) Unlink(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Authentication required",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	if err := tc.unlinkUseCase.Execute(c.Request.Context(), linking.UnlinkChannelInput{UserID: userID}); err != nil {
		slog.Error("Failed to unlink channel", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to unlink",
			Code:  string(domainerror.ErrCodeLinkingStoreFailure),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
