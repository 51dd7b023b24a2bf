package domain

import "github.com/light-bringer/rawsy-service/internal/pkg/actor"

// Recipient is the addressing information of a user account.
type Recipient struct {
	ID           string
	Name         string
	Role         actor.Role
	DeviceTokens []string
}

// UnionTokens merges the device tokens of recipients, dropping duplicates and
// empty tokens while keeping first-seen order.
func UnionTokens(recipients []*Recipient) []string {
	seen := make(map[string]struct{})
	tokens := make([]string, 0)
	for _, r := range recipients {
		if r == nil {
			continue
		}
		for _, t := range r.DeviceTokens {
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}
	return tokens
}
