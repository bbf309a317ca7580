package endpoints

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumen-signage/lumen/internal/http/api"
	"github.com/lumen-signage/lumen/internal/http/api/admin/packets"
	redisclient "github.com/lumen-signage/lumen/internal/redis"
)

// PairingModule mounts the screen pairing endpoints. A short-lived code is
// issued for a screen id and claimed from the player during first-run setup.
func PairingModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/pair/request", requestPairing)
		c.POST("/pair/claim", claimPairing)
	})
}

func requestPairing(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PairingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	code := generatePairCode()
	if err := redisclient.SetPairingCode(ctx, code, request.ScreenID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	return packets.PairingResponse{Code: code}, nil
}

func claimPairing(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PairingClaimRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screenID, err := redisclient.ClaimPairingCode(ctx, request.Code)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "unknown or expired code"}
	}
	return packets.PairingClaimResponse{ScreenID: screenID}, nil
}

func generatePairCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
