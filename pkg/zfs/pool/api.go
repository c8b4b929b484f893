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

package pool

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
)

type Handler struct {
	activator *Activator
}

func NewHandler(activator *Activator) *Handler {
	return &Handler{activator: activator}
}

// Pool Operations:
//
//	GET    /pools                 List pools with activation markers
//	  Response: {"pools": [{"name": "tank", "active": true}, ...]}
//	POST   /pools/activate        Mark one pool active, all others inactive
//	  Request:  {"name": "tank"}
//	  Response: 200 OK
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	pools := router.Group("/pools")
	{
		pools.GET("", h.listPools)
		pools.POST("/activate", h.activatePool)
	}
}

func (h *Handler) listPools(c *gin.Context) {
	pools, err := h.activator.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

func (h *Handler) activatePool(c *gin.Context) {
	var cfg ActivateConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	if err := h.activator.Activate(c.Request.Context(), cfg.Name); err != nil {
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
