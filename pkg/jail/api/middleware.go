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
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/warren/pkg/errors"
)

var (
	// Jail identifiers follow dataset naming rules; a numeric JID is also
	// accepted.
	jailIdentRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

	maxIdentLength = 255
)

// ValidateJailIdent rejects malformed :ident path parameters before they
// reach a manager call
func ValidateJailIdent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := c.Param("ident")
		if ident == "" || len(ident) > maxIdentLength || !jailIdentRegex.MatchString(ident) {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				errors.New(errors.JailValidation,
					fmt.Sprintf("invalid jail identifier %q", ident)))
			return
		}
		c.Next()
	}
}
