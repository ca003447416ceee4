package telegram

import (
	"encoding/json"
	"net/url"
)

// WebAppUser is the user object Telegram embeds in WebApp init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// ParseUser extracts the user object from raw init data. Callers must have
// verified the init data hash first.
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
