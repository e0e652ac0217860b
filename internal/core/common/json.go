package common

import (
	"encoding/json"
	"fmt"
)

// ParseJSON unmarshals the first JSON object found in an LLM response
// into T. Models routinely wrap their output in markdown fences or
// prose, so everything before the first '{' and after the last '}' is
// stripped before decoding.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := -1
	for i := 0; i < len(response); i++ {
		if response[i] == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	end := -1
	for i := len(response) - 1; i >= start; i-- {
		if response[i] == '}' {
			end = i + 1
			break
		}
	}
	if end == -1 {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
