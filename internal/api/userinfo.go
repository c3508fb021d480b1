package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"

	"storefront/internal/models"
)

// decodeUserInfo accepts the JSON profile and the older plain-text
// "email: x\nnickname: y" answer of GET /info.
func decodeUserInfo(body []byte) (*models.User, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &models.User{}, nil
	}
	if trimmed[0] == '{' {
		var user models.User
		if err := json.Unmarshal(trimmed, &user); err != nil {
			return nil, err
		}
		user.Nickname = strings.TrimSpace(user.Nickname)
		return &user, nil
	}

	fields := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &models.User{
		Email:         fields["email"],
		Name:          fields["name"],
		Nickname:      fields["nickname"],
		PhoneNumber:   fields["phonenumber"],
		PostalCode:    fields["postalcode"],
		Address:       fields["address"],
		DetailAddress: fields["detailaddress"],
	}, nil
}
