package telegram

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

func ParseUser(initData string) (*WebAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// ParseReferrer extracts the referrer tg id from the start_param deep-link
// payload ("ref_<tg_id>"). Returns nil when absent or malformed.
func ParseReferrer(initData string) *int64 {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil
	}

	param := values.Get("start_param")
	if !strings.HasPrefix(param, "ref_") {
		return nil
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(param, "ref_"), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
