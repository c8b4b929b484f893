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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
	"github.com/stratastor/warren/pkg/jail"
)

type ReleaseHandler struct {
	manager *jail.Manager
}

func NewReleaseHandler(manager *jail.Manager) *ReleaseHandler {
	return &ReleaseHandler{manager: manager}
}

// Release/Image Operations:
//
//	GET    /releases              List images
//	  Query:    resource=release|template|plugin (default release)
//	            remote=true|false
//	  Response: {"rows": [["13.2-RELEASE"], ...]}
//	POST   /releases/fetch        Fetch release or plugin image (async)
//	  Request:  {"release": "13.2-RELEASE"} or {"name": "plexmediaserver"}
//	  Response: 202 {"job_id": "..."}
func (h *ReleaseHandler) RegisterRoutes(router *gin.RouterGroup) {
	releases := router.Group("/releases")
	{
		releases.GET("", h.listResources)
		releases.POST("/fetch", h.fetch)
	}
}

func (h *ReleaseHandler) listResources(c *gin.Context) {
	resource := jail.ResourceType(c.DefaultQuery("resource", string(jail.ResourceRelease)))
	cfg := jail.ListResourceConfig{
		Resource: resource,
		Remote:   c.Query("remote") == "true",
	}

	rows, err := h.manager.ListResource(c.Request.Context(), cfg)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *ReleaseHandler) fetch(c *gin.Context) {
	var cfg jail.FetchConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}
	if cfg.Release == "" && cfg.Name == "" {
		c.JSON(http.StatusBadRequest, errors.New(errors.JailValidation,
			"one of release or name must be set"))
		return
	}

	jobID, err := h.manager.Fetch(cfg)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})
}
