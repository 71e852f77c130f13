package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/middlewares"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/store"
	"github.com/inkhaus/studio-app/utils"
)

type MessageController struct {
	Store *store.Store
}

func NewMessageController(st *store.Store) *MessageController {
	return &MessageController{Store: st}
}

// bookingAccess decides who is talking on a booking's thread: an admin session
// wins; otherwise the request must carry the booking's client token. Returns
// the sender role, or "" when access is denied.
func (mc *MessageController) bookingAccess(c *gin.Context, bookingID uint) string {
	if middlewares.CurrentUser(c) != nil {
		return models.SenderAdmin
	}

	token := c.Query("token")
	if token == "" {
		return ""
	}
	booking, err := mc.Store.GetBookingByToken(token)
	if err != nil || booking == nil || booking.ID != bookingID {
		return ""
	}
	return models.SenderClient
}

// ListMessages returns a booking's thread oldest first.
func (mc *MessageController) ListMessages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	if mc.bookingAccess(c, uint(id)) == "" {
		utils.RespondError(c, http.StatusForbidden, errors.New("no access to this booking"))
		return
	}

	messages, err := mc.Store.ListMessages(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Messages", messages)
}

// SendMessage appends to the thread. The sender role is derived from how the
// caller authenticated, never from the request body.
func (mc *MessageController) SendMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	sender := mc.bookingAccess(c, uint(id))
	if sender == "" {
		utils.RespondError(c, http.StatusForbidden, errors.New("no access to this booking"))
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	message, err := mc.Store.SendMessage(uint(id), sender, input.Content)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Message sent", message)
}
