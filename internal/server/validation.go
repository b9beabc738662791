package server

import "strings"

const (
	maxNameLength     = 100
	maxUsernameLength = 50
	maxPlayerName     = 50
)

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func validateUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", &ValidationError{Reason: "username is required"}
	}
	if len(trimmed) > maxUsernameLength {
		return "", validationErrorf("username must be %d characters or fewer", maxUsernameLength)
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '-' || r == '_' {
			continue
		}
		return "", &ValidationError{Reason: "username may only use letters, digits, - and _"}
	}
	return trimmed, nil
}
