package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/realtime"
	"github.com/inkhaus/studio-app/store"
	"github.com/inkhaus/studio-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type ChatController struct {
	Store *store.Store
	Hub   *realtime.Hub
	msgs  *MessageController
}

func NewChatController(st *store.Store, hub *realtime.Hub) *ChatController {
	return &ChatController{Store: st, Hub: hub, msgs: NewMessageController(st)}
}

// Feed streams newly inserted messages for one booking over a WebSocket.
// Access follows the message API rules: an admin session or the booking's
// client token. The subscription is torn down when the socket closes, and the
// teardown is idempotent.
func (cc *ChatController) Feed(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	if cc.msgs.bookingAccess(c, uint(id)) == "" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	if _, err := cc.Store.GetBooking(uint(id)); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// Writes happen only on the subscription goroutine, reads only here, so
	// the connection never sees concurrent access on either side.
	sub := cc.Hub.Subscribe(uint(id), func(msg models.Message) {
		if err := ws.WriteJSON(realtime.Event{Event: realtime.EventNewMessage, Data: msg}); err != nil {
			utils.ErrorLogger.Printf("websocket write failed for booking %d: %v", msg.BookingID, err)
		}
	})
	defer sub.Unsubscribe()
	defer ws.Close()

	// If the hub ends the subscription (consumer fell behind), close the
	// socket so the client sees the disconnect instead of a silent gap.
	go func() {
		<-sub.Done()
		ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
