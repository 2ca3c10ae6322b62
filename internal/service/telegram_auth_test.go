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
	"testing"
	"time"
)

// buildInitData builds a valid init_data string for tests using the same
// algorithm as ValidateTelegramInitData.
func buildInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()
	var parts []string
	for k, v := range fields {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	dataString := strings.Join(parts, "\n")

	secret := sha256.Sum256([]byte(botToken))
	h := hmac.New(sha256.New, secret[:])
	h.Write([]byte(dataString))
	hash := hex.EncodeToString(h.Sum(nil))

	vals := url.Values{}
	for k, v := range fields {
		vals.Add(k, v)
	}
	vals.Add("hash", hash)
	return vals.Encode()
}

func TestValidateTelegramInitData_Valid(t *testing.T) {
	botToken := "test-bot-token"
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	}

	initData := buildInitData(t, botToken, fields)

	vals, err := ValidateTelegramInitData(initData, botToken)
	if err != nil {
		t.Fatalf("expected valid init data, got %v", err)
	}
	if vals.Get("user") == "" {
		t.Fatalf("expected user field in values")
	}
	if vals.Get("hash") != "" {
		t.Fatalf("hash must be stripped from returned values")
	}
}

func TestValidateTelegramInitData_Tampered(t *testing.T) {
	botToken := "test-bot-token"
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	}
	initData := buildInitData(t, botToken, fields)

	// appending an extra field breaks the hash
	tampered := initData + "&x=1"

	if _, err := ValidateTelegramInitData(tampered, botToken); !errors.Is(err, ErrInitDataSignature) {
		t.Fatalf("expected ErrInitDataSignature, got %v", err)
	}
}

func TestValidateTelegramInitData_Stale(t *testing.T) {
	botToken := "test-bot-token"
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	}
	initData := buildInitData(t, botToken, fields)

	if _, err := ValidateTelegramInitData(initData, botToken); !errors.Is(err, ErrInitDataStale) {
		t.Fatalf("expected ErrInitDataStale, got %v", err)
	}
}

func TestValidateTelegramInitData_WrongToken(t *testing.T) {
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	}
	initData := buildInitData(t, "token-a", fields)

	if _, err := ValidateTelegramInitData(initData, "token-b"); !errors.Is(err, ErrInitDataSignature) {
		t.Fatalf("expected ErrInitDataSignature, got %v", err)
	}
}

func TestValidateTelegramInitData_MissingHash(t *testing.T) {
	if _, err := ValidateTelegramInitData("auth_date=1&user=x", "token"); !errors.Is(err, ErrInitDataMalformed) {
		t.Fatalf("expected ErrInitDataMalformed, got %v", err)
	}
}
