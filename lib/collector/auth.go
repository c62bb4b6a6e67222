// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/zeebo/blake3"
)

const bearerPrefix = "Bearer "

// authenticate rejects requests without the collector's bearer token.
// A missing or malformed Authorization header is 401; a well-formed
// header carrying the wrong token is 403. Tokens are compared by
// digest so the comparison time does not depend on the token length.
func (c *Collector) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := request.Header.Get("Authorization")
		if header == "" {
			c.reject(writer, request, http.StatusUnauthorized, "missing_token", "missing bearer token")
			return
		}
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok {
			c.reject(writer, request, http.StatusUnauthorized, "malformed_token", "authorization header must use the Bearer scheme")
			return
		}
		digest := blake3.Sum256([]byte(token))
		if subtle.ConstantTimeCompare(digest[:], c.tokenDigest[:]) != 1 {
			c.reject(writer, request, http.StatusForbidden, "invalid_token", "invalid bearer token")
			return
		}
		next.ServeHTTP(writer, request)
	})
}
