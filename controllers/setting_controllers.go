package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/store"
	"github.com/inkhaus/studio-app/utils"
)

type SettingController struct {
	Store *store.Store
}

func NewSettingController(st *store.Store) *SettingController {
	return &SettingController{Store: st}
}

// GetSetting returns the value for a key, with null data when the key has
// never been configured. Absence here is a recognized outcome, not a failure.
func (sc *SettingController) GetSetting(c *gin.Context) {
	key := c.Param("key")
	setting, err := sc.Store.GetSetting(key)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if setting == nil {
		utils.RespondJSON(c, http.StatusOK, "Setting not configured", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Setting", setting)
}

// SetSetting upserts the value keyed on the path key.
func (sc *SettingController) SetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("setting key is required"))
		return
	}

	var input struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	setting, err := sc.Store.SetSetting(key, input.Value)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Setting saved", setting)
}
