package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Cookie is an upstream API cookie held on the shopper's behalf.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the persisted browser session record.
type Session struct {
	ID        string                     `json:"id"`
	LoggedIn  bool                       `json:"loggedIn"`
	Nickname  string                     `json:"nickname,omitempty"`
	Cookies   []Cookie                   `json:"cookies,omitempty"`
	Flashes   []Flash                    `json:"flashes,omitempty"`
	Pages     map[string]json.RawMessage `json:"pages,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
	ExpiresAt time.Time                  `json:"expiresAt"`
}

// Clone returns a copy that shares no slices or maps with s.
func (s Session) Clone() Session {
	out := s
	out.Cookies = slices.Clone(s.Cookies)
	out.Flashes = slices.Clone(s.Flashes)
	if s.Pages != nil {
		out.Pages = maps.Clone(s.Pages)
		for k, v := range out.Pages {
			out.Pages[k] = bytes.Clone(v)
		}
	}
	return out
}
