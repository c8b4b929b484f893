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

package jobs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.listJobs)
		jobs.GET("/:id", h.getJob)
		jobs.GET("/:id/wait", h.waitJob)
		jobs.POST("/:id/cancel", h.cancelJob)
	}
}

func (h *Handler) listJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.manager.List()})
}

func (h *Handler) getJob(c *gin.Context) {
	job, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// waitJob blocks until the job finishes or the request context is done
func (h *Handler) waitJob(c *gin.Context) {
	job, err := h.manager.Wait(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) cancelJob(c *gin.Context) {
	if err := h.manager.Cancel(c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func respondErr(c *gin.Context, err error) {
	if werr, ok := err.(*errors.WarrenError); ok && werr.HTTPStatus != 0 {
		c.JSON(werr.HTTPStatus, werr)
		return
	}
	c.JSON(http.StatusInternalServerError, err)
}
