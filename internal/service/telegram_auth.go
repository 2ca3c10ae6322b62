package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// init_data older than this is treated as a replay
	initDataMaxAge = time.Hour
	// tolerated forward skew between Telegram's clock and ours
	initDataClockSkew = 5 * time.Minute
)

var (
	ErrInitDataMalformed = errors.New("init_data malformed")
	ErrInitDataSignature = errors.New("init_data signature mismatch")
	ErrInitDataStale     = errors.New("init_data auth_date outside allowed window")
)

// ValidateTelegramInitData checks the WebApp init_data signature against the
// bot token and rejects payloads whose auth_date falls outside the replay
// window. On success it returns the parsed fields with "hash" removed.
func ValidateTelegramInitData(initData, botToken string) (url.Values, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInitDataMalformed
	}

	provided, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(provided) == 0 {
		return nil, ErrInitDataMalformed
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for k, v := range values {
		pairs = append(pairs, k+"="+strings.Join(v, ""))
	}
	sort.Strings(pairs)

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	if !hmac.Equal(mac.Sum(nil), provided) {
		return nil, ErrInitDataSignature
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, ErrInitDataMalformed
	}
	age := time.Since(time.Unix(authDate, 0))
	if age > initDataMaxAge || age < -initDataClockSkew {
		return nil, ErrInitDataStale
	}

	return values, nil
}
