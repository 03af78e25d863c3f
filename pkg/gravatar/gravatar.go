// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gravatar derives avatar URLs from contact addresses.

The address is trimmed and lower-cased before hashing, so every spelling of
one mailbox maps to the same image.
*/
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

// BaseURL is the gravatar image endpoint.
const BaseURL = "https://www.gravatar.com/avatar/"

// Options controls the image gravatar serves.
type Options struct {
	Size    int    // pixel size, omitted when zero
	Rating  string // maximum content rating: g, pg, r, x
	Default string // fallback image such as "mm" or "identicon"
}

// Hash returns the hex md5 of the normalized address.
func Hash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// URL builds the avatar URL for email.
func URL(email string, opts Options) string {
	query := url.Values{}
	if opts.Default != "" {
		query.Set("d", opts.Default)
	}
	if opts.Rating != "" {
		query.Set("r", opts.Rating)
	}
	if opts.Size > 0 {
		query.Set("s", strconv.Itoa(opts.Size))
	}

	if len(query) == 0 {
		return BaseURL + Hash(email)
	}
	return BaseURL + Hash(email) + "?" + query.Encode()
}
