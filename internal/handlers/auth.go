package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
)

type AuthHandler struct {
	auth       *services.AuthService
	sync       *services.SyncService
	jwtService *services.JWTService
}

func NewAuthHandler(auth *services.AuthService, sync *services.SyncService, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{auth: auth, sync: sync, jwtService: jwtService}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
	Referral string `json:"referral"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	agg, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
		Referral: req.Referral,
		Origin:   models.ChannelWeb,
	}, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(agg.Account.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"account": accountView(agg.Account),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	agg, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(agg.Account.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"account": accountView(agg.Account),
	})
}

// IssueLinkCode mints a one-time code the user types into the Telegram bot to
// attach that chat to this account.
func (h *AuthHandler) IssueLinkCode(c *gin.Context) {
	email := c.GetString("email")

	code, err := h.sync.IssueLinkCode(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       code,
		"expires_in": "10m",
		"hint":       "send /link " + code + " to the bot",
	})
}

func accountView(a *models.Account) gin.H {
	return gin.H{
		"email":           a.Email,
		"nickname":        a.Nickname,
		"registered_at":   a.RegisteredAt,
		"referral_code":   a.ReferralCode,
		"reward_points":   a.RewardPoints,
		"status":          a.Status,
		"telegram_handle": a.TelegramHandle,
		"origin_channel":  a.OriginChannel,
	}
}
