/*
 * Copyright 2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api exposes jail lifecycle operations over HTTP
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail"
)

type JailHandler struct {
	manager *jail.Manager
}

func NewJailHandler(manager *jail.Manager) *JailHandler {
	return &JailHandler{manager: manager}
}

// Jail Operations:
//
//	GET    /jails                 List jails
//	POST   /jails/query           List jails with filters/sort/pagination
//	  Request:  {"filters": [{"field": "state", "op": "=", "value": "running"}],
//	             "options": {"sort": "id", "limit": 10}}
//	POST   /jails                 Create jail (async)
//	  Request:  {"release": "13.2-RELEASE", "id": "web1", "properties": ["boot=on"]}
//	  Response: 202 {"job_id": "..."}
//	GET    /jails/:ident          Get one jail
//	PUT    /jails/:ident          Set properties and/or rename
//	DELETE /jails/:ident          Destroy jail
//	POST   /jails/:ident/start    Start jail
//	POST   /jails/:ident/stop     Stop jail
//	POST   /jails/:ident/fstab    Apply one fstab action
//	POST   /jails/:ident/exec     Run command inside jail
//	POST   /jails/:ident/update   Update to latest patch (async)
//	POST   /jails/:ident/upgrade  Upgrade to target release (async)
//	POST   /jails/:ident/export   Export jail archive (async)
//	POST   /jails/import          Import jail archive (async)
//	POST   /jails/clean           Destroy datasets of a scope
func (h *JailHandler) RegisterRoutes(router *gin.RouterGroup) {
	jails := router.Group("/jails")
	{
		jails.GET("", h.listJails)
		jails.POST("/query", h.queryJails)
		jails.POST("", h.createJail)

		jails.POST("/import", h.importJail)
		jails.POST("/clean", h.cleanJails)

		jails.GET("/:ident", ValidateJailIdent(), h.getJail)
		jails.PUT("/:ident", ValidateJailIdent(), h.updateJail)
		jails.DELETE("/:ident", ValidateJailIdent(), h.deleteJail)

		jails.POST("/:ident/start", ValidateJailIdent(), h.startJail)
		jails.POST("/:ident/stop", ValidateJailIdent(), h.stopJail)
		jails.POST("/:ident/fstab", ValidateJailIdent(), h.fstab)
		jails.POST("/:ident/exec", ValidateJailIdent(), h.execJail)
		jails.POST("/:ident/update", ValidateJailIdent(), h.updateToLatestPatch)
		jails.POST("/:ident/upgrade", ValidateJailIdent(), h.upgradeJail)
		jails.POST("/:ident/export", ValidateJailIdent(), h.exportJail)
	}
}

func (h *JailHandler) listJails(c *gin.Context) {
	jails := h.manager.Query(c.Request.Context(), jail.QueryConfig{})
	c.JSON(http.StatusOK, gin.H{"jails": jails})
}

func (h *JailHandler) queryJails(c *gin.Context) {
	var cfg jail.QueryConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"jails": h.manager.Query(c.Request.Context(), cfg)})
}

func (h *JailHandler) getJail(c *gin.Context) {
	j, err := h.manager.Get(c.Request.Context(), c.Param("ident"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JailHandler) createJail(c *gin.Context) {
	var cfg jail.CreateConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}
	if cfg.Release == "" && cfg.Template == "" && !cfg.Empty {
		c.JSON(http.StatusBadRequest, errors.New(errors.JailValidation,
			"one of release, template or empty must be set"))
		return
	}

	jobID, err := h.manager.Create(cfg)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

func (h *JailHandler) updateJail(c *gin.Context) {
	var cfg jail.UpdateConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	if err := h.manager.Update(c.Request.Context(), c.Param("ident"), cfg); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *JailHandler) deleteJail(c *gin.Context) {
	if err := h.manager.Delete(c.Request.Context(), c.Param("ident")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JailHandler) startJail(c *gin.Context) {
	if err := h.manager.Start(c.Request.Context(), c.Param("ident")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *JailHandler) stopJail(c *gin.Context) {
	if err := h.manager.Stop(c.Request.Context(), c.Param("ident")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *JailHandler) fstab(c *gin.Context) {
	var cfg jail.FstabConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	entries, err := h.manager.Fstab(c.Request.Context(), c.Param("ident"), cfg)
	if err != nil {
		respondErr(c, err)
		return
	}
	if cfg.Action == jail.FstabList {
		c.JSON(http.StatusOK, gin.H{"entries": entries})
		return
	}
	c.Status(http.StatusOK)
}

func (h *JailHandler) execJail(c *gin.Context) {
	var cfg jail.ExecConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	out, err := h.manager.Exec(c.Request.Context(), c.Param("ident"), cfg)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"output": out})
}

func (h *JailHandler) updateToLatestPatch(c *gin.Context) {
	jobID, err := h.manager.UpdateToLatestPatch(c.Request.Context(), c.Param("ident"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

func (h *JailHandler) upgradeJail(c *gin.Context) {
	var req struct {
		Release string `json:"release" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	jobID, err := h.manager.Upgrade(c.Request.Context(), c.Param("ident"), req.Release)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

func (h *JailHandler) exportJail(c *gin.Context) {
	jobID, err := h.manager.Export(c.Request.Context(), c.Param("ident"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

func (h *JailHandler) importJail(c *gin.Context) {
	var req struct {
		Ident string `json:"ident" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	jobID, err := h.manager.Import(req.Ident)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}

func (h *JailHandler) cleanJails(c *gin.Context) {
	var req struct {
		Scope jail.CleanScope `json:"scope" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	if err := h.manager.Clean(c.Request.Context(), req.Scope); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func respondErr(c *gin.Context, err error) {
	if werr, ok := err.(*errors.WarrenError); ok && werr.HTTPStatus != 0 {
		c.JSON(werr.HTTPStatus, werr)
		return
	}
	c.JSON(http.StatusInternalServerError, err)
}
