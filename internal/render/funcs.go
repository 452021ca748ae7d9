// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/G-Villarinho/book-wise/internal/models"
)

// MaskEmail hides the local part of an email except its first character.
// Strings without "@" are returned unchanged.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	if at == 0 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// funcMap returns the helpers available to every template.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"maskEmail": MaskEmail,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"formatRate": func(f float64) string {
			return strings.Replace(fmt.Sprintf("%.1f", f), ".", ",", 1)
		},
		"statusLabel": statusLabel,
		"roleLabel":   roleLabel,
		"join":        strings.Join,
		"truncate":    truncate,
		"stars": func(rate int) []bool {
			out := make([]bool, 5)
			for i := range out {
				out[i] = i < rate
			}
			return out
		},
		"dict": dict,
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusActive:
		return "Ativo"
	case models.StatusBlocked:
		return "Bloqueado"
	default:
		return string(s)
	}
}

func roleLabel(r models.Role) string {
	switch r {
	case models.RoleOwner:
		return "Proprietário"
	case models.RoleAdmin:
		return "Administrador"
	case models.RoleMember:
		return "Membro"
	default:
		return string(r)
	}
}

// dict builds a map from alternating keys and values so a template can pass
// several values to a nested template.
func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		out[key] = kv[i+1]
	}
	return out, nil
}

// truncate shortens s to maxLen runes, ending in "..." when there is room
// for it.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}
