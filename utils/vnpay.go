package utils

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VerifyVNPaySignature checks the vnp_SecureHash of a gateway callback.
// The hash covers every vnp_ parameter except the hash fields themselves,
// sorted by key and URL-encoded, signed with HMAC-SHA512.
func VerifyVNPaySignature(params map[string]string, secret string) bool {
	received := params["vnp_SecureHash"]
	if received == "" || secret == "" {
		return false
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[k]))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(sb.String()))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}
