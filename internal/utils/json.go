package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled fence patterns (compiled once, used many times).
// Both are lazy so the first closing fence ends the block.
var (
	jsonFenceRegex       = regexp.MustCompile("(?s)```json\\s*\\n?(.*?)```")
	typescriptFenceRegex = regexp.MustCompile("(?s)```typescript\\s*\\n?(.*?)```")
)

// ErrNoFencedBlock is returned when a response has no fenced block of the requested language.
var ErrNoFencedBlock = errors.New("no fenced block found in response")

// ParseJSON unmarshals the whole (trimmed) response. It does not attempt any
// repair: model text that is not exactly one JSON value fails.
func ParseJSON[T any](response string) (T, error) {
	var result T
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return result, fmt.Errorf("empty response")
	}
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return result, fmt.Errorf("parse JSON: %w", err)
	}
	return result, nil
}

// ParseJSONWithFenceFallback first parses the response directly and, if that
// fails, parses the first ```json fenced block found in it.
func ParseJSONWithFenceFallback[T any](response string) (T, error) {
	result, err := ParseJSON[T](response)
	if err == nil {
		return result, nil
	}

	block, ok := ExtractJSONBlock(response)
	if !ok {
		return result, fmt.Errorf("%w (direct parse: %v)", ErrNoFencedBlock, err)
	}
	return ParseJSON[T](block)
}

// ExtractJSONBlock returns the content of the first ```json fenced block.
func ExtractJSONBlock(response string) (string, bool) {
	return firstSubmatch(jsonFenceRegex, response)
}

// ExtractTypeScriptBlock returns the content of the first ```typescript fenced block.
func ExtractTypeScriptBlock(response string) (string, bool) {
	return firstSubmatch(typescriptFenceRegex, response)
}

func firstSubmatch(re *regexp.Regexp, response string) (string, bool) {
	m := re.FindStringSubmatch(response)
	if len(m) < 2 {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
