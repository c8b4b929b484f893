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

package peers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	peers := router.Group("/peers")
	{
		peers.GET("", h.listPeers)
		peers.POST("", h.createPeer)
		peers.GET("/:id", h.getPeer)
		peers.PUT("/:id", h.updatePeer)
		peers.DELETE("/:id", h.deletePeer)
	}
}

func (h *Handler) listPeers(c *gin.Context) {
	list, err := h.store.List()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"peers": list})
}

func (h *Handler) createPeer(c *gin.Context) {
	var input PeerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.PeerInvalidInput, err.Error()))
		return
	}

	p, err := h.store.Create(input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) getPeer(c *gin.Context) {
	p, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updatePeer(c *gin.Context) {
	var input PeerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest,
			errors.New(errors.PeerInvalidInput, err.Error()))
		return
	}

	p, err := h.store.Update(c.Param("id"), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePeer(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondErr(c *gin.Context, err error) {
	if werr, ok := err.(*errors.WarrenError); ok && werr.HTTPStatus != 0 {
		c.JSON(werr.HTTPStatus, werr)
		return
	}
	c.JSON(http.StatusInternalServerError, err)
}
