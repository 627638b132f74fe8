package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HomeBanner is the plain-text body served at the root path.
const HomeBanner = "Fenmo Expense Tracker Backend is running"

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.String(http.StatusOK, HomeBanner)
}
